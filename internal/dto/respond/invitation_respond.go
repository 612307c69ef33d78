package respond

// InvitationRespond 邀请链接详情,仅拥有者可见
type InvitationRespond struct {
	Uuid      string `json:"uuid"`
	Token     string `json:"token"`
	MaxUses   int    `json:"max_uses"`
	UsesCount int    `json:"uses_count"`
	ExpiresAt string `json:"expires_at,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// InvitationInfoRespond 邀请公开信息,任何持有 token 的人可查
type InvitationInfoRespond struct {
	Valid         bool             `json:"valid"`
	Owner         *UserCardRespond `json:"owner,omitempty"`
	CreatedAt     string           `json:"created_at,omitempty"`
	ExpiresAt     string           `json:"expires_at,omitempty"`
	RemainingUses int              `json:"remaining_uses"`
}

// AcceptInvitationRespond 接受邀请返回,幂等重放时 AlreadyConnected 为 true
type AcceptInvitationRespond struct {
	RoomUuid         string `json:"room_uuid"`
	OwnerUuid        string `json:"owner_uuid"`
	AlreadyConnected bool   `json:"already_connected"`
}
