package respond

// PresenceRespond 用户在线状态，已过期的 online 会显示为 offline
type PresenceRespond struct {
	UserId   string `json:"user_id"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen,omitempty"`
	IsOnline bool   `json:"is_online"`
}

// OnlineFriendRespond 在线好友
type OnlineFriendRespond struct {
	User     UserInfoRespond `json:"user"`
	LastSeen string          `json:"last_seen"`
}

// OnlineCountRespond 全站在线人数
type OnlineCountRespond struct {
	Count int64 `json:"count"`
}
