package respond

// ContactRespond 联系人列表项
type ContactRespond struct {
	TargetUuid string `json:"target_uuid"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	Nickname   string `json:"nickname"`
	Blocked    bool   `json:"blocked"`
	IsOnline   bool   `json:"is_online"`
}
