// Package handler 提供 HTTP 请求处理器
// 本文件处理房间相关请求
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomHandler 房间请求处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建房间处理器实例
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// GetOrCreateDirect 获取/创建单聊房间
// POST /room/direct
func (h *RoomHandler) GetOrCreateDirect(c *gin.Context) {
	var req request.CreateDirectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.roomSvc.GetOrCreateDirect(CurrentUserUuid(c), req.TargetUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetRoomList 房间列表
// GET /room/list
func (h *RoomHandler) GetRoomList(c *gin.Context) {
	data, err := h.roomSvc.GetRoomList(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 标记已读
// POST /room/markRead
func (h *RoomHandler) MarkRead(c *gin.Context) {
	var req request.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.roomSvc.MarkRead(CurrentUserUuid(c), req.RoomUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
