// Package handler 提供 HTTP 请求处理器
// 本文件处理动态相关请求
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// StatusHandler 动态请求处理器
type StatusHandler struct {
	statusSvc service.StatusService
}

// NewStatusHandler 创建动态处理器实例
func NewStatusHandler(statusSvc service.StatusService) *StatusHandler {
	return &StatusHandler{statusSvc: statusSvc}
}

// CreateStatus 发布动态
// POST /status/create
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	var req request.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statusSvc.CreateStatus(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetFeed 可见动态流
// GET /status/feed
func (h *StatusHandler) GetFeed(c *gin.Context) {
	data, err := h.statusSvc.GetFeed(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetMyStatuses 本人未过期动态
// GET /status/my
func (h *StatusHandler) GetMyStatuses(c *gin.Context) {
	data, err := h.statusSvc.GetMyStatuses(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RecordView 记录浏览
// POST /status/view
func (h *StatusHandler) RecordView(c *gin.Context) {
	var req request.StatusUuidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.statusSvc.RecordView(CurrentUserUuid(c), req.StatusUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetViewers 观看者列表
// GET /status/viewers?status_uuid=xxx
func (h *StatusHandler) GetViewers(c *gin.Context) {
	var req request.StatusUuidRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.statusSvc.GetViewers(CurrentUserUuid(c), req.StatusUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// React 表态
// POST /status/react
func (h *StatusHandler) React(c *gin.Context) {
	var req request.ReactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.statusSvc.React(CurrentUserUuid(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Unreact 撤销表态
// POST /status/unreact
func (h *StatusHandler) Unreact(c *gin.Context) {
	var req request.StatusUuidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.statusSvc.Unreact(CurrentUserUuid(c), req.StatusUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteStatus 删除动态
// POST /status/delete
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	var req request.StatusUuidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.statusSvc.DeleteStatus(CurrentUserUuid(c), req.StatusUuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
