package redis

import (
	"context"
	"strconv"
	"time"

	"playmate_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Init 按配置创建缓存服务
// Host 为空时使用进程内缓存；配置了 Redis 但连不上时直接返回错误
func Init(conf *config.RedisConfig) (AsyncCacheService, error) {
	if conf.Host == "" {
		zap.L().Warn("redis host not configured, using in-process cache")
		return NewLocalCache(), nil
	}

	port := conf.Port
	if port == 0 {
		port = 6379
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Host + ":" + strconv.Itoa(port),
		Password: conf.Password,
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     50, // 最大连接数
		MinIdleConns: 10, // 最小空闲连接，与 Worker 数量匹配
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	// 10 个 Worker，缓冲区 1000，供各 Service 共享
	return NewRedisCache(client, 10, 1000), nil
}
