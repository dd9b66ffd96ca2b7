package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/model"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PresenceHandler 在线状态请求处理器
type PresenceHandler struct {
	presenceSvc service.PresenceService
}

// NewPresenceHandler 创建在线状态处理器实例
func NewPresenceHandler(presenceSvc service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceSvc: presenceSvc}
}

// Update 上报在线状态
// POST /presence
// 没有 WebSocket 连接的客户端通过此接口维持心跳
func (h *PresenceHandler) Update(c *gin.Context) {
	var req request.UpdatePresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.presenceSvc.MarkPresence(c.Request.Context(), currentUserId(c), model.PresenceStatus(req.Status))
	HandleSuccess(c, nil)
}

// OnlineFriends 在线好友
// GET /presence/friends
func (h *PresenceHandler) OnlineFriends(c *gin.Context) {
	data, err := h.presenceSvc.ListOnlineFriends(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// OnlineCount 全站在线人数
// GET /presence/online-count
func (h *PresenceHandler) OnlineCount(c *gin.Context) {
	n, err := h.presenceSvc.OnlineCount(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.OnlineCountRespond{Count: n})
}

// User 单个用户状态
// GET /presence/user?user_id=xxx
func (h *PresenceHandler) User(c *gin.Context) {
	var req request.UserIdQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.presenceSvc.GetUserPresence(c.Request.Context(), req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Users 批量查询状态，按请求顺序返回
// POST /presence/users
func (h *PresenceHandler) Users(c *gin.Context) {
	var req request.UserIdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.presenceSvc.GetPresenceForUsers(c.Request.Context(), req.UserIds)
	HandleList(c, data, err)
}
