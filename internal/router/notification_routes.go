package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes 注册站内通知路由（需要认证）
// 只能操作自己的通知
func (rt *Router) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	notificationGroup := rg.Group("/notification")
	{
		notificationGroup.GET("/list", rt.handlers.Notification.List)
		notificationGroup.GET("/unread-count", rt.handlers.Notification.UnreadCount)
		notificationGroup.POST("/read", rt.handlers.Notification.MarkRead)
		notificationGroup.POST("/read-all", rt.handlers.Notification.MarkAllRead)
		notificationGroup.POST("/delete", rt.handlers.Notification.Delete)
		notificationGroup.POST("/delete-all", rt.handlers.Notification.DeleteAll)
	}
}
