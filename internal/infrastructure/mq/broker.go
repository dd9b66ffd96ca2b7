// Package mq 数据变更事件总线
// 事件只通知"某张表与某用户相关的数据变了"，不携带行数据，订阅方收到后重新拉取
// 支持 Channel（单机）和 Kafka（多实例）两种实现
package mq

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Table 发生变更的数据类别
type Table string

const (
	TableFriendship   Table = "friendship"
	TablePresence     Table = "presence"
	TableMessage      Table = "message"
	TableNotification Table = "notification"
	TableStatistics   Table = "statistics"
	TablePreference   Table = "preference"
	TableAuth         Table = "auth"
	TableProfile      Table = "profile"
	// TableSignOut 退出登录，收到的会话随即结束
	TableSignOut Table = "sign_out"
)

// ChangeEvent 数据变更事件
type ChangeEvent struct {
	Table Table `json:"table"`
	// UserId 受影响的用户，订阅按用户路由
	UserId string `json:"user_id"`
	// ActorId 触发变更的用户，可为空
	ActorId string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

// Broker 事件总线接口
// 在 main.go 中根据配置初始化为 KafkaBroker 或 ChannelBroker
type Broker interface {
	// Publish 发布事件，不阻塞调用方
	Publish(ctx context.Context, ev ChangeEvent) error
	// Subscribe 订阅发给 userId 的事件，返回的函数用于取消订阅
	Subscribe(userId string) (<-chan ChangeEvent, func())
	// Start 启动消费循环，ctx 取消后退出
	Start(ctx context.Context)
	// Close 关闭代理资源
	Close() error
}

// Notify 向每个受影响用户发布一条变更事件
// 事件丢失只会推迟客户端刷新，发布失败只记日志
func Notify(ctx context.Context, b Broker, table Table, actorId string, userIds ...string) {
	if b == nil {
		return
	}
	now := time.Now().UTC()
	for _, uid := range userIds {
		if uid == "" {
			continue
		}
		ev := ChangeEvent{Table: table, UserId: uid, ActorId: actorId, At: now}
		if err := b.Publish(ctx, ev); err != nil {
			zap.L().Warn("publish change event", zap.String("table", string(table)),
				zap.String("user_id", uid), zap.Error(err))
		}
	}
}
