// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"wave_chat_server/internal/service"
	"wave_chat_server/internal/service/relay"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	User       *UserHandler
	Contact    *ContactHandler
	Invitation *InvitationHandler
	Room       *RoomHandler
	Message    *MessageHandler
	Status     *StatusHandler
	Call       *CallHandler
	Ws         *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// svc: Service 聚合；broker: WebSocket 转发代理，可为 nil（测试场景）
func NewHandlers(svc *service.Services, broker relay.MessageBroker) *Handlers {
	return &Handlers{
		User:       NewUserHandler(svc.User),
		Contact:    NewContactHandler(svc.Contact),
		Invitation: NewInvitationHandler(svc.Invitation),
		Room:       NewRoomHandler(svc.Room),
		Message:    NewMessageHandler(svc.Message),
		Status:     NewStatusHandler(svc.Status),
		Call:       NewCallHandler(svc.Call),
		Ws:         NewWsHandler(broker),
	}
}
