package model

import "time"

// PresenceStatus 客户端上报的原始状态标签，单独不能作为是否在线的依据
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
	PresenceAway    PresenceStatus = "away"
)

// Valid 判断是否为合法状态
func (s PresenceStatus) Valid() bool {
	switch s {
	case PresenceOnline, PresenceOffline, PresenceAway:
		return true
	}
	return false
}

// Presence 用户在线状态，每个用户一条，按 user_id upsert
type Presence struct {
	UserId   string         `gorm:"column:user_id;primaryKey;type:char(20);comment:用户id"`
	Status   PresenceStatus `gorm:"column:status;type:varchar(10);not null;comment:状态 online/offline/away"`
	LastSeen time.Time      `gorm:"column:last_seen;index;not null;comment:最近一次心跳时间"`
}

// TableName 指定表名
func (Presence) TableName() string {
	return "user_presence"
}
