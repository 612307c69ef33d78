package respond

// LoginRespond 登录/注册成功返回
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserInfoRespond 用户资料返回
type UserInfoRespond struct {
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio"`
	Phone        string `json:"phone"`
	IsOnline     bool   `json:"is_online"`
	LastSeenAt   string `json:"last_seen_at,omitempty"`
	ShowLastSeen int8   `json:"show_last_seen"`
	ShowStatusTo int8   `json:"show_status_to"`
}

// UserCardRespond 在他人视角下展示的用户卡片
type UserCardRespond struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}
