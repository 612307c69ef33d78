package respond

// RoomRespond 房间列表项,附带最近一条消息与未读数
type RoomRespond struct {
	Uuid        string          `json:"uuid"`
	Name        string          `json:"name"`
	Type        int8            `json:"type"`
	Avatar      string          `json:"avatar"`
	UpdatedAt   string          `json:"updated_at"`
	UnreadCount int64           `json:"unread_count"`
	LastMessage *MessageRespond `json:"last_message,omitempty"`
}
