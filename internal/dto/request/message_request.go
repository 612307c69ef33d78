package request

// SendMessageRequest 发送消息请求,密文三元组由客户端加密后提交
type SendMessageRequest struct {
	RoomUuid          string `json:"room_uuid" binding:"required"`
	Type              int8   `json:"type" binding:"oneof=0 1 2 3 4 5 6"`
	Ciphertext        string `json:"ciphertext"`
	Nonce             string `json:"nonce"`
	Tag               string `json:"tag"`
	FileUrl           string `json:"file_url"`
	FileName          string `json:"file_name"`
	FileSize          int64  `json:"file_size"`
	FileType          string `json:"file_type"`
	ReplyToUuid       *int64 `json:"reply_to_uuid,string"`
	ForwardedFromUuid *int64 `json:"forwarded_from_uuid,string"`
}

// ListMessageRequest 拉取房间消息请求
type ListMessageRequest struct {
	RoomUuid string `json:"room_uuid" form:"room_uuid" binding:"required"`
	Limit    int    `json:"limit" form:"limit" binding:"omitempty,min=1,max=200"`
	Before   int64  `json:"before,string" form:"before"`
}

// EditMessageRequest 编辑消息请求,重新提交整组密文
type EditMessageRequest struct {
	MessageUuid int64  `json:"message_uuid,string" binding:"required"`
	Ciphertext  string `json:"ciphertext" binding:"required"`
	Nonce       string `json:"nonce" binding:"required"`
	Tag         string `json:"tag" binding:"required"`
}

// DeleteMessageRequest 删除消息请求
type DeleteMessageRequest struct {
	MessageUuid int64 `json:"message_uuid,string" binding:"required"`
}

// MessageStatusRequest 上报消息送达/已读状态请求
type MessageStatusRequest struct {
	MessageUuid int64 `json:"message_uuid,string" binding:"required"`
	Status      int8  `json:"status" binding:"oneof=1 2"`
}
