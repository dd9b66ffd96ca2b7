// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"playmate_server/internal/dao/mysql/repository"
	myredis "playmate_server/internal/dao/redis"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/service/friend"
	"playmate_server/internal/service/message"
	"playmate_server/internal/service/notification"
	"playmate_server/internal/service/preference"
	"playmate_server/internal/service/presence"
	"playmate_server/internal/service/stats"
	"playmate_server/internal/service/user"
	"playmate_server/pkg/util/clock"
)

// Options Service 层可调参数
type Options struct {
	Clock           clock.Clock
	FreshnessWindow time.Duration // 在线判定窗口
	RefreshTokenTTL time.Duration // Refresh Token 有效期
}

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	User         UserService
	Presence     PresenceService
	Friend       FriendService
	Message      MessageService
	Notification NotificationService
	Stats        StatsService
	Preference   PreferenceService
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 好友 ID 缓存被在线状态和私信共用
//  2. 通知服务先于好友、私信创建，作为它们的通知出口
//  3. 返回 Services 聚合
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, broker mq.Broker, opts Options) *Services {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	graph := friend.NewGraph(repos, cache)
	notificationSvc := notification.NewNotificationService(repos, broker, clk)
	presenceSvc := presence.NewPresenceService(repos, cache, graph, broker, clk, opts.FreshnessWindow)
	friendSvc := friend.NewFriendService(repos, graph, notificationSvc, broker, clk)
	messageSvc := message.NewMessageService(repos, graph, friendSvc, notificationSvc, broker, clk)

	return &Services{
		User:         user.NewUserService(repos, cache, presenceSvc, broker, opts.RefreshTokenTTL),
		Presence:     presenceSvc,
		Friend:       friendSvc,
		Message:      messageSvc,
		Notification: notificationSvc,
		Stats:        stats.NewStatsService(repos, broker, clk),
		Preference:   preference.NewPreferenceService(repos, broker, clk),
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Friend.Accept() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository、缓存和事件总线初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, broker mq.Broker, opts Options) {
	Svc = NewServices(repos, cache, broker, opts)
}
