// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"playmate_server/internal/handler"
	"playmate_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// APIPrefix 业务接口前缀
const APIPrefix = "/api/v1"

// Router 路由管理器，持有所有 Handler
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
//   - 公开接口：注册、登录、刷新 Token、WebSocket（token 走 query）
//   - 其余接口统一经过 JWTAuth
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group(APIPrefix)
	rt.RegisterPublicAuthRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth())
	{
		rt.RegisterAuthRoutes(authed)         // 当前用户、退出登录
		rt.RegisterUserRoutes(authed)         // 个人资料、用户搜索
		rt.RegisterFriendRoutes(authed)       // 好友关系
		rt.RegisterPresenceRoutes(authed)     // 在线状态
		rt.RegisterMessageRoutes(authed)      // 私信
		rt.RegisterNotificationRoutes(authed) // 站内通知
		rt.RegisterStatsRoutes(authed)        // 战绩
		rt.RegisterPreferenceRoutes(authed)   // 偏好
	}

	rt.RegisterWebSocketRoutes(api)
}
