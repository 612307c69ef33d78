package request

// UpdateUserInfoRequest 修改个人资料请求,指针字段为空表示不修改
type UpdateUserInfoRequest struct {
	Username     *string `json:"username" binding:"omitempty,min=2,max=30"`
	Avatar       *string `json:"avatar"`
	Bio          *string `json:"bio" binding:"omitempty,max=200"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	ShowLastSeen *int8   `json:"show_last_seen" binding:"omitempty,oneof=0 1 2"`
	ShowStatusTo *int8   `json:"show_status_to" binding:"omitempty,oneof=0 1 2"`
}
