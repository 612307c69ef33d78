// Package handler 提供 HTTP 请求处理器
// 本文件处理邀请相关请求
// LookupPublicInfo 不要求登录，其余操作走 JWT 认证
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// InvitationHandler 邀请请求处理器
type InvitationHandler struct {
	invitationSvc service.InvitationService
}

// NewInvitationHandler 创建邀请处理器实例
func NewInvitationHandler(invitationSvc service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationSvc: invitationSvc}
}

// GetMyInvitation 获取本人邀请，没有则创建
// GET /invitation/my
func (h *InvitationHandler) GetMyInvitation(c *gin.Context) {
	data, err := h.invitationSvc.GetOrCreateDefault(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Regenerate 重新生成邀请令牌
// POST /invitation/regenerate
func (h *InvitationHandler) Regenerate(c *gin.Context) {
	data, err := h.invitationSvc.Regenerate(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LookupPublicInfo 查询邀请公开信息（免登录，扫码落地页使用）
// GET /invite/:token
func (h *InvitationHandler) LookupPublicInfo(c *gin.Context) {
	data, err := h.invitationSvc.LookupPublicInfo(
		c.Param("token"),
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Accept 接受邀请
// POST /invitation/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req request.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.invitationSvc.Accept(
		CurrentUserUuid(c),
		req.Token,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
