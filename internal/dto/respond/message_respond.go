package respond

// MessageRespond 单条私信
type MessageRespond struct {
	Id         string `json:"id"`
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"created_at"`
}

// ConversationRespond 会话列表项，每次查询实时计算，不落库
type ConversationRespond struct {
	Partner     UserInfoRespond `json:"partner"`
	LastMessage MessageRespond  `json:"last_message"`
	UnreadCount int64           `json:"unread_count"`
	IsFriend    bool            `json:"is_friend"`
}

// InboxRespond 聊天页两个标签的数据
// RequestsUnread = 待处理好友请求数 + 非好友会话未读数
type InboxRespond struct {
	Friends         []ConversationRespond  `json:"friends"`
	Requests        []ConversationRespond  `json:"requests"`
	PendingRequests []FriendRequestRespond `json:"pending_requests"`
	FriendsUnread   int64                  `json:"friends_unread"`
	RequestsUnread  int64                  `json:"requests_unread"`
}

// UnreadCountRespond 未读数
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}

// MarkReadRespond 批量标记已读的条数
type MarkReadRespond struct {
	Updated int64 `json:"updated"`
}
