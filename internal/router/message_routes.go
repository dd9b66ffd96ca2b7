// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		messageGroup.POST("/send", rt.handlers.Message.Send)                  // 发送私信
		messageGroup.GET("/conversation", rt.handlers.Message.Conversation)   // 与某人的消息记录
		messageGroup.GET("/conversations", rt.handlers.Message.Conversations) // 会话列表
		messageGroup.POST("/read", rt.handlers.Message.MarkRead)              // 会话标记已读
		messageGroup.GET("/unread-count", rt.handlers.Message.UnreadCount)    // 未读总数
		messageGroup.GET("/inbox", rt.handlers.Message.Inbox)                 // 聊天页
	}
}
