// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"wave_chat_server/internal/dao/mysql"
	myredis "wave_chat_server/internal/dao/redis"
	"wave_chat_server/internal/service/call"
	"wave_chat_server/internal/service/contact"
	"wave_chat_server/internal/service/invitation"
	"wave_chat_server/internal/service/message"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/internal/service/room"
	"wave_chat_server/internal/service/status"
	"wave_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	User       UserService
	Contact    ContactService
	Invitation InvitationService
	Room       RoomService
	Message    MessageService
	Status     StatusService
	Call       CallService
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 聚合；cache: 异步缓存服务；notifier: 实时推送，可为 nil
func NewServices(repos *mysql.Repositories, cache myredis.AsyncCacheService, notifier relay.Notifier) *Services {
	return &Services{
		User:       user.NewUserService(repos, cache),
		Contact:    contact.NewContactService(repos),
		Invitation: invitation.NewInvitationService(repos, cache),
		Room:       room.NewRoomService(repos),
		Message:    message.NewMessageService(repos, notifier),
		Status:     status.NewStatusService(repos),
		Call:       call.NewCallService(repos, notifier),
	}
}

// Svc 全局 Services 实例
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 与 relay 初始化之后
func InitServices(repos *mysql.Repositories, cache myredis.AsyncCacheService, notifier relay.Notifier) {
	Svc = NewServices(repos, cache, notifier)
}
