package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册个人资料路由（需要认证）
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.PUT("/profile", rt.handlers.User.UpdateProfile) // 修改自己的资料
		userGroup.GET("/search", rt.handlers.User.Search)         // 按用户名或姓名搜索
		userGroup.GET("/:id", rt.handlers.User.GetProfile)        // 他人主页
	}
}
