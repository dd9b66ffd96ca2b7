package handler

import (
	"playmate_server/internal/dto/request"
	"playmate_server/internal/service"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler 用户偏好请求处理器
// key 取自路径参数，格式校验在 Service 层
type PreferenceHandler struct {
	preferenceSvc service.PreferenceService
}

func NewPreferenceHandler(preferenceSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceSvc: preferenceSvc}
}

// All GET /preference
func (h *PreferenceHandler) All(c *gin.Context) {
	data, err := h.preferenceSvc.All(c.Request.Context(), currentUserId(c))
	HandleList(c, data, err)
}

// Get GET /preference/:key
func (h *PreferenceHandler) Get(c *gin.Context) {
	data, err := h.preferenceSvc.Get(c.Request.Context(), currentUserId(c), c.Param("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Set PUT /preference/:key
func (h *PreferenceHandler) Set(c *gin.Context) {
	var req request.SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.preferenceSvc.Set(c.Request.Context(), currentUserId(c), c.Param("key"), req.Value); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Delete DELETE /preference/:key
func (h *PreferenceHandler) Delete(c *gin.Context) {
	if err := h.preferenceSvc.Delete(c.Request.Context(), currentUserId(c), c.Param("key")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
