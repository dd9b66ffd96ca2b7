package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPresenceRoutes 注册在线状态路由（需要认证）
func (rt *Router) RegisterPresenceRoutes(rg *gin.RouterGroup) {
	presenceGroup := rg.Group("/presence")
	{
		presenceGroup.POST("", rt.handlers.Presence.Update)
		presenceGroup.GET("/friends", rt.handlers.Presence.OnlineFriends)
		presenceGroup.GET("/online-count", rt.handlers.Presence.OnlineCount)
		presenceGroup.GET("/user", rt.handlers.Presence.User)
		presenceGroup.POST("/users", rt.handlers.Presence.Users)
	}
}
