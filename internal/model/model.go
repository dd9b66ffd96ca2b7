package model

// All 需要自动迁移的全部模型
func All() []any {
	return []any{
		&UserInfo{},
		&Friendship{},
		&Presence{},
		&Message{},
		&Notification{},
		&UserStatistics{},
		&GameHistory{},
		&Achievement{},
		&UserPreference{},
	}
}
