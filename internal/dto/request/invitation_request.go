package request

// AcceptInvitationRequest 接受邀请请求
type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required,len=32"`
}
