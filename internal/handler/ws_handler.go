// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接请求
package handler

import (
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 接入处理器
type WsHandler struct {
	broker relay.MessageBroker
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(broker relay.MessageBroker) *WsHandler {
	return &WsHandler{broker: broker}
}

// Connect 建立事件推送连接
// GET /ws（需 JWT 认证）
func (h *WsHandler) Connect(c *gin.Context) {
	if h.broker == nil {
		HandleError(c, errorx.ErrServerBusy)
		return
	}
	_ = relay.NewClientInit(c, h.broker, CurrentUserUuid(c))
}
