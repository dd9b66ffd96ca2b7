// Package router 提供 HTTP 路由注册
// 本文件定义账号相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicAuthRoutes 注册无需认证的账号路由
func (rt *Router) RegisterPublicAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register) // 注册
		authGroup.POST("/login", rt.handlers.Auth.Login)       // 邮箱密码登录
		// 使用 Refresh Token 换取新的 Access Token
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}

// RegisterAuthRoutes 注册需要认证的账号路由
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/logout", rt.handlers.Auth.Logout)
		authGroup.GET("/me", rt.handlers.Auth.Me)
	}
}
