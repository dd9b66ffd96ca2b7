package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 站内通知请求处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List GET /notification/list
func (h *NotificationHandler) List(c *gin.Context) {
	data, err := h.notificationSvc.List(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// UnreadCount GET /notification/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notificationSvc.UnreadCount(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.UnreadCountRespond{Count: n})
}

// MarkRead POST /notification/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req request.NotificationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.notificationSvc.MarkRead(c.Request.Context(), currentUserId(c), req.Id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// MarkAllRead POST /notification/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notificationSvc.MarkAllRead(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{Updated: n})
}

// Delete POST /notification/delete
func (h *NotificationHandler) Delete(c *gin.Context) {
	var req request.NotificationIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.notificationSvc.Delete(c.Request.Context(), currentUserId(c), req.Id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteAll POST /notification/delete-all
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	n, err := h.notificationSvc.DeleteAll(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{Updated: n})
}
