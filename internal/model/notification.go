package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification 站内通知
// Data 的结构由 Type 决定，读写统一经过 NotificationPayload，不直接操作原始 JSON
type Notification struct {
	ID        string           `gorm:"column:id;primaryKey;type:char(20);comment:通知id"`
	UserId    string           `gorm:"column:user_id;index:idx_notification_user,priority:1;type:char(20);not null;comment:接收用户"`
	Type      NotificationType `gorm:"column:type;type:varchar(32);not null;comment:通知类型"`
	Title     string           `gorm:"column:title;type:varchar(100);not null;comment:标题"`
	Content   string           `gorm:"column:content;type:varchar(500);comment:内容"`
	Data      datatypes.JSON   `gorm:"column:data;comment:类型相关的附加数据"`
	Read      bool             `gorm:"column:is_read;index:idx_notification_user,priority:2;not null;default:false;comment:是否已读"`
	CreatedAt time.Time        `gorm:"column:created_at;index;comment:创建时间"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notification"
}

// Payload 按 Type 解出附加数据
func (n *Notification) Payload() (NotificationPayload, error) {
	return DecodePayload(n.Type, n.Data)
}
