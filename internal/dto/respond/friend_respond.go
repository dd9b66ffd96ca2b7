package respond

// FriendshipStatusRespond 两个用户之间的关系状态
// 没有记录时 Status 为 none，其余字段为空
type FriendshipStatusRespond struct {
	Status       string `json:"status"`
	IsRequester  bool   `json:"is_requester"`
	FriendshipId string `json:"friendship_id,omitempty"`
}

// FriendRespond 好友列表项
type FriendRespond struct {
	FriendshipId string          `json:"friendship_id"`
	User         UserInfoRespond `json:"user"`
	Since        string          `json:"since"`
}

// FriendRequestRespond 待处理的好友请求，User 为对方
type FriendRequestRespond struct {
	FriendshipId string          `json:"friendship_id"`
	User         UserInfoRespond `json:"user"`
	CreatedAt    string          `json:"created_at"`
}

// SendFriendRequestRespond 发送好友请求响应
type SendFriendRequestRespond struct {
	FriendshipId string `json:"friendship_id"`
	Status       string `json:"status"`
}
