package request

// CreateStatusRequest 发布动态请求
type CreateStatusRequest struct {
	Type            int8     `json:"type" binding:"oneof=0 1 2"`
	Text            string   `json:"text" binding:"omitempty,max=700"`
	MediaUrl        string   `json:"media_url"`
	MediaType       string   `json:"media_type"`
	BackgroundColor string   `json:"background_color" binding:"omitempty,max=20"`
	Visibility      int8     `json:"visibility" binding:"oneof=0 1 2"`
	ViewerUuids     []string `json:"viewer_uuids"`
}

// ReactStatusRequest 动态表情回应请求
type ReactStatusRequest struct {
	StatusUuid string `json:"status_uuid" binding:"required"`
	Reaction   int8   `json:"reaction" binding:"oneof=0 1 2 3 4 5 6"`
}

// StatusUuidRequest 按动态 uuid 操作的通用请求
type StatusUuidRequest struct {
	StatusUuid string `json:"status_uuid" form:"status_uuid" binding:"required"`
}
