package request

// CreateDirectRoomRequest 创建/获取单聊房间请求
type CreateDirectRoomRequest struct {
	TargetUuid string `json:"target_uuid" binding:"required"`
}

// MarkReadRequest 标记已读请求
type MarkReadRequest struct {
	RoomUuid string `json:"room_uuid" binding:"required"`
}
