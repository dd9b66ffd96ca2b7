// Package handler 提供 HTTP 请求处理器
// 本文件处理账号相关的 API 请求
package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 账号请求处理器
type AuthHandler struct {
	userSvc service.UserService
}

// NewAuthHandler 创建账号处理器实例
func NewAuthHandler(userSvc service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Register 用户注册
// POST /auth/register
// 请求体: request.RegisterRequest
// 响应: respond.RegisterRespond
func (h *AuthHandler) Register(c *gin.Context) {
	// 1. 绑定并验证请求参数
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}

	// 2. 调用 Service 层处理业务逻辑
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	// 3. 返回成功响应
	HandleSuccess(c, data)
}

// Login 邮箱密码登录
// POST /auth/login
// 响应: respond.LoginRespond (用户信息 + Access/Refresh Token)
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RefreshToken 刷新 Access Token
// POST /auth/refresh
// 同一账号在其他设备登录后，旧的 Refresh Token 失效
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Logout 退出登录
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.userSvc.Logout(c.Request.Context(), currentUserId(c)); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Me 当前登录用户
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	data, err := h.userSvc.GetCurrentUser(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
