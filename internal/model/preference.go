package model

import "time"

// UserPreference 用户偏好键值，(user_id, pref_key) 唯一，按用户隔离
type UserPreference struct {
	ID        uint      `gorm:"primaryKey"`
	UserId    string    `gorm:"column:user_id;uniqueIndex:idx_pref_user_key,priority:1;type:char(20);not null"`
	Key       string    `gorm:"column:pref_key;uniqueIndex:idx_pref_user_key,priority:2;type:varchar(64);not null"`
	Value     string    `gorm:"column:pref_value;type:varchar(1024);not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName 指定表名
func (UserPreference) TableName() string {
	return "user_preference"
}
