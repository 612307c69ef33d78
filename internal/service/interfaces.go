// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 操作者身份一律作为显式参数传入，不从请求体读取
package service

import (
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
)

// UserService 用户业务接口
// 处理注册、登录、资料管理与在线标志
type UserService interface {
	// Register 注册新用户并颁发令牌
	Register(req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login 密码登录，置在线标志
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// Logout 登出，清在线标志并刷新 last_seen
	Logout(userUuid string) error
	// GetUserInfo 查看用户资料，last_seen 按隐私设置对 viewer 过滤
	GetUserInfo(viewerUuid, targetUuid string) (*respond.UserInfoRespond, error)
	// UpdateUserInfo 修改本人资料与隐私设置
	UpdateUserInfo(userUuid string, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error)
}

// ContactService 联系人业务接口
type ContactService interface {
	// AddContact 添加 (owner → target) 联系边
	AddContact(ownerUuid string, req request.AddContactRequest) error
	// SetNickname 修改联系人备注名
	SetNickname(ownerUuid string, req request.UpdateContactRequest) error
	// SetBlocked 拉黑/取消拉黑
	SetBlocked(ownerUuid, targetUuid string, blocked bool) error
	// GetContactList 联系人列表
	GetContactList(ownerUuid string) ([]respond.ContactRespond, error)
}

// InvitationService 邀请业务接口
type InvitationService interface {
	// GetOrCreateDefault 获取最新邀请，没有则按默认参数创建
	GetOrCreateDefault(ownerUuid string) (*respond.InvitationRespond, error)
	// Regenerate 重新生成令牌，计数清零并恢复激活
	Regenerate(ownerUuid string) (*respond.InvitationRespond, error)
	// LookupPublicInfo 查询令牌公开信息，无需登录；顺带异步记录扫描事件
	LookupPublicInfo(token, ipAddress, userAgent string) (*respond.InvitationInfoRespond, error)
	// Accept 接受邀请，与 owner 建立单聊；同一用户重复接受幂等返回原房间
	Accept(userUuid, token, ipAddress, userAgent string) (*respond.AcceptInvitationRespond, error)
}

// RoomService 房间业务接口
type RoomService interface {
	// GetOrCreateDirect 获取/创建与目标用户的单聊房间
	GetOrCreateDirect(userUuid, targetUuid string) (*respond.RoomRespond, error)
	// GetRoomList 用户参与的房间列表，带最近消息与未读数
	GetRoomList(userUuid string) ([]respond.RoomRespond, error)
	// MarkRead 推进读游标
	MarkRead(userUuid, roomUuid string) error
}

// MessageService 消息业务接口
type MessageService interface {
	// SendMessage 发送消息，持久化后实时转发给房间其他成员
	SendMessage(senderUuid string, req request.SendMessageRequest) (*respond.MessageRespond, error)
	// GetMessageList 房间消息流，最新在前
	GetMessageList(userUuid string, req request.ListMessageRequest) ([]respond.MessageRespond, error)
	// EditMessage 编辑本人消息
	EditMessage(userUuid string, req request.EditMessageRequest) (*respond.MessageRespond, error)
	// DeleteMessage 软删除本人消息
	DeleteMessage(userUuid string, messageUuid int64) error
	// UpsertStatus 上报送达/已读状态，只允许单调前进
	UpsertStatus(userUuid string, req request.MessageStatusRequest) error
}

// StatusService 动态业务接口
type StatusService interface {
	// CreateStatus 发布动态
	CreateStatus(ownerUuid string, req request.CreateStatusRequest) (*respond.StatusRespond, error)
	// GetFeed 可见动态流（他人发布、未过期）
	GetFeed(userUuid string) ([]respond.StatusRespond, error)
	// GetMyStatuses 本人未过期动态
	GetMyStatuses(ownerUuid string) ([]respond.StatusRespond, error)
	// RecordView 记录浏览，重复浏览与本人浏览均为无副作用成功
	RecordView(viewerUuid, statusUuid string) error
	// GetViewers 观看者列表，仅发布者可查
	GetViewers(ownerUuid, statusUuid string) ([]respond.StatusViewerRespond, error)
	// React 表态，同一用户重复表态覆盖原值
	React(userUuid string, req request.ReactStatusRequest) error
	// Unreact 撤销表态
	Unreact(userUuid, statusUuid string) error
	// DeleteStatus 删除本人动态
	DeleteStatus(ownerUuid, statusUuid string) error
}

// CallService 通话信令业务接口
type CallService interface {
	// Initiate 发起通话，进入振铃态并通知被叫
	Initiate(callerUuid string, req request.InitiateCallRequest) (*respond.CallRespond, error)
	// Accept 被叫接听
	Accept(userUuid string, req request.AcceptCallRequest) (*respond.CallRespond, error)
	// Decline 被叫拒接
	Decline(userUuid, callUuid string) (*respond.CallRespond, error)
	// End 任一方挂断
	End(userUuid, callUuid string) (*respond.CallRespond, error)
	// GetHistory 通话记录
	GetHistory(userUuid string) ([]respond.CallRespond, error)
	// AddIceCandidate 追加 ICE candidate 并转发给对端
	AddIceCandidate(userUuid string, req request.IceCandidateRequest) error
}
