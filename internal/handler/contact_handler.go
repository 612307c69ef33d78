// Package handler 提供 HTTP 请求处理器
// 本文件处理联系人相关请求
package handler

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系人请求处理器
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler 创建联系人处理器实例
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// AddContact 添加联系人
// POST /contact/add
func (h *ContactHandler) AddContact(c *gin.Context) {
	var req request.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.AddContact(CurrentUserUuid(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetNickname 修改联系人备注
// POST /contact/nickname
func (h *ContactHandler) SetNickname(c *gin.Context) {
	var req request.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.SetNickname(CurrentUserUuid(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// BlockContact 拉黑联系人
// POST /contact/block
func (h *ContactHandler) BlockContact(c *gin.Context) {
	var req request.BlockContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.SetBlocked(CurrentUserUuid(c), req.TargetUuid, true); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UnblockContact 取消拉黑
// POST /contact/unblock
func (h *ContactHandler) UnblockContact(c *gin.Context) {
	var req request.BlockContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contactSvc.SetBlocked(CurrentUserUuid(c), req.TargetUuid, false); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetContactList 联系人列表
// GET /contact/list
func (h *ContactHandler) GetContactList(c *gin.Context) {
	data, err := h.contactSvc.GetContactList(CurrentUserUuid(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
