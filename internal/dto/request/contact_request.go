package request

// AddContactRequest 添加联系人请求
type AddContactRequest struct {
	TargetUuid string `json:"target_uuid" binding:"required"`
	Nickname   string `json:"nickname" binding:"omitempty,max=30"`
}

// UpdateContactRequest 修改联系人备注请求
type UpdateContactRequest struct {
	TargetUuid string `json:"target_uuid" binding:"required"`
	Nickname   string `json:"nickname" binding:"omitempty,max=30"`
}

// BlockContactRequest 拉黑/取消拉黑联系人请求
type BlockContactRequest struct {
	TargetUuid string `json:"target_uuid" binding:"required"`
}
