// Package redis 定义缓存服务接口
// Service 层依赖此接口而非具体 Redis 实现，未配置 Redis 时退化为进程内缓存
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
// 缓存只做加速，所有数据以数据库为准，缓存失败时调用方应回源
type CacheService interface {
	// ==================== String 操作 ====================

	// Set 设置键值对并指定过期时间，ttl <= 0 表示不过期
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// GetOrError 获取键对应的值（键不存在返回 CodeNotFound）
	GetOrError(ctx context.Context, key string) (string, error)

	// ==================== Key 操作 ====================

	// Exists 键是否存在
	Exists(ctx context.Context, key string) (bool, error)
	// Expire 设置过期时间
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
	// DeleteByPattern 删除匹配模式的所有键，如 "user_token:U123:*"
	DeleteByPattern(ctx context.Context, pattern string) error

	// ==================== Set 集合操作 ====================

	// AddToSet 向集合添加成员
	AddToSet(ctx context.Context, key string, members ...string) error
	// GetSetMembers 获取集合中的所有成员
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	// RemoveFromSet 从集合中移除成员
	RemoveFromSet(ctx context.Context, key string, members ...string) error

	// Ping 连通性检查
	Ping(ctx context.Context) error
}

// AsyncCacheService 异步缓存服务接口
// 提供异步任务提交能力，用于非阻塞的缓存回填和失效
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务
	SubmitTask(action func())
	// Close 停止后台任务
	Close() error
}
