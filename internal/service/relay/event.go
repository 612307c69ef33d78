// Package relay 实现实时事件转发
// REST 接口负责持久化，这里只负责把事件推送给在线用户
// 支持 channel（单机）和 kafka（分布式）两种转发模式
package relay

import "encoding/json"

// 事件类型
const (
	EventMessageNew     = "message.new"     // 新消息
	EventMessageEdited  = "message.edited"  // 消息被编辑
	EventMessageDeleted = "message.deleted" // 消息被删除
	EventMessageStatus  = "message.status"  // 消息送达/已读状态变化
	EventCallIncoming   = "call.incoming"   // 来电振铃
	EventCallAccepted   = "call.accepted"   // 对端接听
	EventCallDeclined   = "call.declined"   // 对端拒接
	EventCallEnded      = "call.ended"      // 通话结束
	EventCallIce        = "call.ice"        // ICE candidate 转发
)

// Event 推送给前端的事件
type Event struct {
	Kind     string `json:"kind"`
	RoomUuid string `json:"room_uuid,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// envelope 跨节点路由信封
// kafka 模式下每个节点都会消费到全量事件，依靠 Targets 判断是否投递本机连接
type envelope struct {
	Targets []string        `json:"targets"`
	Event   json.RawMessage `json:"event"`
}
