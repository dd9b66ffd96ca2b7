package handler

import (
	"context"

	"playmate_server/internal/dto/request"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友关系请求处理器
type FriendHandler struct {
	friendSvc service.FriendService
}

// NewFriendHandler 创建好友处理器实例
func NewFriendHandler(friendSvc service.FriendService) *FriendHandler {
	return &FriendHandler{friendSvc: friendSvc}
}

// SendRequest 发送好友请求
// POST /friend/request
// 请求体: request.SendFriendRequest
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req request.SendFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.friendSvc.SendRequest(c.Request.Context(), currentUserId(c), req.AddresseeId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Accept 通过好友请求，只有被请求方可以操作
// POST /friend/accept
func (h *FriendHandler) Accept(c *gin.Context) {
	h.byFriendshipId(c, h.friendSvc.Accept)
}

// Decline 拒绝好友请求
// POST /friend/decline
func (h *FriendHandler) Decline(c *gin.Context) {
	h.byFriendshipId(c, h.friendSvc.Decline)
}

// Remove 删除好友
// POST /friend/remove
func (h *FriendHandler) Remove(c *gin.Context) {
	h.byFriendshipId(c, h.friendSvc.Remove)
}

// Block 拉黑
// POST /friend/block
func (h *FriendHandler) Block(c *gin.Context) {
	h.byUserId(c, h.friendSvc.Block)
}

// Unblock 解除拉黑
// POST /friend/unblock
func (h *FriendHandler) Unblock(c *gin.Context) {
	h.byUserId(c, h.friendSvc.Unblock)
}

// Status 与某个用户的关系
// GET /friend/status?user_id=xxx
func (h *FriendHandler) Status(c *gin.Context) {
	var req request.UserIdQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.friendSvc.StatusBetween(c.Request.Context(), currentUserId(c), req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// List 好友列表
// GET /friend/list
func (h *FriendHandler) List(c *gin.Context) {
	data, err := h.friendSvc.ListFriends(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// Pending 收到的待处理请求
// GET /friend/pending
func (h *FriendHandler) Pending(c *gin.Context) {
	data, err := h.friendSvc.ListPendingRequests(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// Sent 发出的待处理请求
// GET /friend/sent
func (h *FriendHandler) Sent(c *gin.Context) {
	data, err := h.friendSvc.ListSentRequests(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

func (h *FriendHandler) byFriendshipId(c *gin.Context, op func(ctx context.Context, actor, id string) error) {
	var req request.FriendshipIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := op(c.Request.Context(), currentUserId(c), req.FriendshipId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

func (h *FriendHandler) byUserId(c *gin.Context, op func(ctx context.Context, actor, other string) error) {
	var req request.UserIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := op(c.Request.Context(), currentUserId(c), req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
