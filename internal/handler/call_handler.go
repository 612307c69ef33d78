// Package handler 提供 HTTP 请求处理器
// 本文件处理通话信令相关请求
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// CallHandler 通话请求处理器
type CallHandler struct {
	callSvc service.CallService
}

// NewCallHandler 创建通话处理器实例
func NewCallHandler(callSvc service.CallService) *CallHandler {
	return &CallHandler{callSvc: callSvc}
}

// Initiate 发起通话
// POST /call/initiate
func (h *CallHandler) Initiate(c *gin.Context) {
	var req request.InitiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.callSvc.Initiate(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Accept 接听
// POST /call/accept
func (h *CallHandler) Accept(c *gin.Context) {
	var req request.AcceptCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.callSvc.Accept(CurrentUserUuid(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Decline 拒接
// POST /call/decline
func (h *CallHandler) Decline(c *gin.Context) {
	var req request.CallUuidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.callSvc.Decline(CurrentUserUuid(c), req.CallUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// End 挂断
// POST /call/end
func (h *CallHandler) End(c *gin.Context) {
	var req request.CallUuidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.callSvc.End(CurrentUserUuid(c), req.CallUuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetHistory 通话记录
// GET /call/history
func (h *CallHandler) GetHistory(c *gin.Context) {
	data, err := h.callSvc.GetHistory(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddIceCandidate 上报 ICE candidate
// POST /call/ice
func (h *CallHandler) AddIceCandidate(c *gin.Context) {
	var req request.IceCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.callSvc.AddIceCandidate(CurrentUserUuid(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
