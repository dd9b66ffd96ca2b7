// Package model 定义数据库实体模型
// 本文件定义私信模型
package model

import "time"

// Message 一对一私信
// 对应数据库 message 表
// Read 只会从 false 变为 true，由接收方打开会话时批量更新
type Message struct {
	// ID 雪花算法生成，同节点内单调递增，可作为会话内排序依据
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:false;comment:消息雪花ID"`
	SenderId   string    `gorm:"column:sender_id;index:idx_message_pair,priority:1;type:char(20);not null;comment:发送者uuid"`
	ReceiverId string    `gorm:"column:receiver_id;index:idx_message_pair,priority:2;index:idx_message_unread,priority:1;type:char(20);not null;comment:接收者uuid"`
	Content    string    `gorm:"column:content;type:TEXT;not null;comment:消息内容"`
	Read       bool      `gorm:"column:is_read;index:idx_message_unread,priority:2;not null;default:false;comment:是否已读"`
	CreatedAt  time.Time `gorm:"column:created_at;comment:发送时间"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}

// Partner 返回消息中相对于 self 的另一方
func (m *Message) Partner(self string) string {
	if m.SenderId == self {
		return m.ReceiverId
	}
	return m.SenderId
}
