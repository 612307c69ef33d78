// Package handler 提供 HTTP 请求处理器
// 本文件处理消息相关请求
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage 发送消息
// POST /message/send
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendMessage(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMessageList 房间消息流
// GET /message/list?room_uuid=xxx&limit=50&before=…
func (h *MessageHandler) GetMessageList(c *gin.Context) {
	var req request.ListMessageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.GetMessageList(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// EditMessage 编辑消息
// POST /message/edit
func (h *MessageHandler) EditMessage(c *gin.Context) {
	var req request.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.EditMessage(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteMessage 删除消息
// POST /message/delete
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	var req request.DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.messageSvc.DeleteMessage(CurrentUserUuid(c), req.MessageUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpsertStatus 上报消息送达/已读状态
// POST /message/status
func (h *MessageHandler) UpsertStatus(c *gin.Context) {
	var req request.MessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.messageSvc.UpsertStatus(CurrentUserUuid(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
