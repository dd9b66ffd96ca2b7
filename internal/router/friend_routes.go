// Package router 提供 HTTP 路由注册
// 本文件定义好友相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterFriendRoutes 注册好友相关路由（需要认证）
func (rt *Router) RegisterFriendRoutes(rg *gin.RouterGroup) {
	friendGroup := rg.Group("/friend")
	{
		// ===== 查询 =====
		friendGroup.GET("/status", rt.handlers.Friend.Status)   // 与某人的关系
		friendGroup.GET("/list", rt.handlers.Friend.List)       // 好友列表
		friendGroup.GET("/pending", rt.handlers.Friend.Pending) // 收到的待处理请求
		friendGroup.GET("/sent", rt.handlers.Friend.Sent)       // 发出的待处理请求

		// ===== 好友申请 =====
		friendGroup.POST("/request", rt.handlers.Friend.SendRequest) // 发送好友请求
		friendGroup.POST("/accept", rt.handlers.Friend.Accept)       // 通过
		friendGroup.POST("/decline", rt.handlers.Friend.Decline)     // 拒绝

		// ===== 好友关系管理 =====
		friendGroup.POST("/remove", rt.handlers.Friend.Remove)   // 删除好友
		friendGroup.POST("/block", rt.handlers.Friend.Block)     // 拉黑
		friendGroup.POST("/unblock", rt.handlers.Friend.Unblock) // 解除拉黑
	}
}
