// Package handler 提供 HTTP 请求处理器
// 本文件处理私信相关的 API 请求
package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/dto/respond"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 私信请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建私信处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// Send 发送私信
// POST /message/send
// 请求体: request.SendMessageRequest
// 响应: respond.MessageRespond
func (h *MessageHandler) Send(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendMessage(c.Request.Context(), currentUserId(c), req.ReceiverId, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Conversation 与某人的全部消息，按时间升序
// GET /message/conversation?user_id=xxx
func (h *MessageHandler) Conversation(c *gin.Context) {
	var req request.UserIdQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.GetConversation(c.Request.Context(), currentUserId(c), req.UserId)
	HandleList(c, data, err)
}

// Conversations 会话列表
// GET /message/conversations
func (h *MessageHandler) Conversations(c *gin.Context) {
	data, err := h.messageSvc.ListConversations(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// MarkRead 将与某人的会话标记为已读
// POST /message/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req request.UserIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	n, err := h.messageSvc.MarkConversationRead(c.Request.Context(), currentUserId(c), req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{Updated: n})
}

// UnreadCount 私信未读总数
// GET /message/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	n, err := h.messageSvc.UnreadCount(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.UnreadCountRespond{Count: n})
}

// Inbox 聊天页数据：好友、待处理请求、会话
// GET /message/inbox
func (h *MessageHandler) Inbox(c *gin.Context) {
	data, err := h.messageSvc.Inbox(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
