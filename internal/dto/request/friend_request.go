package request

// SendFriendRequest 发送好友请求
type SendFriendRequest struct {
	AddresseeId string `json:"addressee_id" binding:"required"`
}

// FriendshipIdRequest 接受 / 拒绝 / 删除好友，按关系 ID 操作
type FriendshipIdRequest struct {
	FriendshipId string `json:"friendship_id" binding:"required"`
}

// UserIdRequest 以对方用户 ID 为参数的请求（拉黑、解除拉黑、标记会话已读）
type UserIdRequest struct {
	UserId string `json:"user_id" binding:"required"`
}

// UserIdQuery 以 query 传对方用户 ID
type UserIdQuery struct {
	UserId string `form:"user_id" binding:"required"`
}
