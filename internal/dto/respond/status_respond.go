package respond

// StatusRespond 动态返回
type StatusRespond struct {
	Uuid            string `json:"uuid"`
	OwnerUuid       string `json:"owner_uuid"`
	OwnerName       string `json:"owner_name,omitempty"`
	Type            int8   `json:"type"`
	Text            string `json:"text,omitempty"`
	MediaUrl        string `json:"media_url,omitempty"`
	MediaType       string `json:"media_type,omitempty"`
	BackgroundColor string `json:"background_color"`
	Visibility      int8   `json:"visibility"`
	ViewCount       uint   `json:"view_count"`
	CreatedAt       string `json:"created_at"`
	ExpiresAt       string `json:"expires_at"`
	Viewed          bool   `json:"viewed"`
}

// StatusViewerRespond 动态观看者列表项
type StatusViewerRespond struct {
	UserUuid string `json:"user_uuid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	ViewedAt string `json:"viewed_at"`
}
