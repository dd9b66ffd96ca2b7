package websocket

import (
	"context"
	"time"

	"playmate_server/internal/dto/respond"
	"playmate_server/internal/infrastructure/mq"
	"playmate_server/internal/model"
)

// PresenceMarker 上报在线状态
// 用于解耦 websocket 包对 service 包的依赖
type PresenceMarker interface {
	MarkPresence(ctx context.Context, userId string, status model.PresenceStatus)
}

// NotificationStore 通知读写，会话内的未读投影以它为准
type NotificationStore interface {
	List(ctx context.Context, userId string) ([]respond.NotificationRespond, error)
	MarkRead(ctx context.Context, userId, id string) error
	MarkAllRead(ctx context.Context, userId string) (int64, error)
}

// PreferenceStore 偏好读写，AppState 从这里初始化并回写
type PreferenceStore interface {
	Get(ctx context.Context, userId, key string) (*respond.PreferenceRespond, error)
	Set(ctx context.Context, userId, key, value string) error
}

// Deps 会话依赖，在 main.go 中注入
type Deps struct {
	Presence      PresenceMarker
	Notifications NotificationStore
	Preferences   PreferenceStore
	Broker        mq.Broker
	// Heartbeat 心跳间隔，<= 0 时使用默认值
	Heartbeat time.Duration
}
