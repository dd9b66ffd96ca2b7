// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"net/http"

	"playmate_server/internal/gateway/websocket"
	"playmate_server/internal/infrastructure/middleware"
	"playmate_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 连接处理器
type WsHandler struct {
	gateway *websocket.Gateway
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(gateway *websocket.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect 升级 HTTP 连接为 WebSocket
// GET /ws?token=xxx
// 浏览器握手无法携带 Authorization 头，Access Token 通过 query 传递
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  "缺少 token",
		})
		return
	}
	userId, err := middleware.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code": errorx.CodeUnauthorized,
			"msg":  err.Error(),
		})
		return
	}
	// 升级失败时 upgrader 已写入响应
	if err := h.gateway.Serve(c.Writer, c.Request, userId); err != nil {
		zap.L().Warn("ws upgrade", zap.String("user_id", userId), zap.Error(err))
	}
}
