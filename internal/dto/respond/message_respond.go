package respond

import "strconv"

// FormatMessageUuid 雪花 id 转十进制字符串
func FormatMessageUuid(uuid int64) string {
	return strconv.FormatInt(uuid, 10)
}

// MessageRespond 消息返回,雪花 id 以字符串下发避免 js 精度丢失
type MessageRespond struct {
	Uuid              string `json:"uuid"`
	RoomUuid          string `json:"room_uuid"`
	SenderUuid        string `json:"sender_uuid"`
	Type              int8   `json:"type"`
	Ciphertext        string `json:"ciphertext,omitempty"`
	Nonce             string `json:"nonce,omitempty"`
	Tag               string `json:"tag,omitempty"`
	FileUrl           string `json:"file_url,omitempty"`
	FileName          string `json:"file_name,omitempty"`
	FileSize          int64  `json:"file_size,omitempty"`
	FileType          string `json:"file_type,omitempty"`
	ReplyToUuid       string `json:"reply_to_uuid,omitempty"`
	ForwardedFromUuid string `json:"forwarded_from_uuid,omitempty"`
	CreatedAt         string `json:"created_at"`
	EditedAt          string `json:"edited_at,omitempty"`
	Deleted           bool   `json:"deleted"`
}
