// Package handler 提供 HTTP 请求处理器
// 本文件处理个人资料相关的 API 请求
package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 个人资料请求处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建个人资料处理器实例
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// UpdateProfile 修改个人资料
// PUT /user/profile
// 请求体: request.UpdateProfileRequest
// 响应: respond.CurrentUserRespond (修改后的资料)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.UpdateProfile(c.Request.Context(), currentUserId(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetProfile 查看用户主页
// GET /user/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	data, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Search 搜索用户
// GET /user/search?q=xxx
// 响应: []respond.UserInfoRespond，最多 10 条
func (h *UserHandler) Search(c *gin.Context) {
	var req request.SearchUsersRequest
	// 使用 ShouldBindQuery 绑定 URL 查询参数
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.SearchUsers(c.Request.Context(), currentUserId(c), req.Q)
	HandleList(c, data, err)
}
