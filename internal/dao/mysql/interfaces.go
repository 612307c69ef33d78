// Package mysql 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package mysql

import (
	"database/sql"
	"time"

	"wave_chat_server/internal/model"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.UserInfo, error)
	// FindByUsername 根据用户名查找用户
	FindByUsername(username string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// Update 更新用户信息
	Update(user *model.UserInfo) error
	// SetOnline 设置在线标志，离线时同时更新 last_seen_at
	SetOnline(uuid string, online bool) error
}

// ContactRepository 联系人数据访问接口
// 管理 (owner, target) 有向联系边
type ContactRepository interface {
	// FindByOwnerAndTarget 查找指定有向边
	FindByOwnerAndTarget(ownerUuid, targetUuid string) (*model.Contact, error)
	// FindByOwner 查找用户的所有联系人
	FindByOwner(ownerUuid string) ([]model.Contact, error)
	// FindOwnersHavingContact 反向查找：拥有指向 target 的未拉黑边的所有 owner
	// 用于"仅联系人可见"的动态流过滤
	FindOwnersHavingContact(targetUuid string) ([]string, error)
	// Create 创建联系边
	Create(contact *model.Contact) error
	// Update 更新联系边（备注名、拉黑标志）
	Update(contact *model.Contact) error
}

// InvitationRepository 邀请数据访问接口
type InvitationRepository interface {
	// FindNewestByOwner 查找用户最新的邀请
	FindNewestByOwner(ownerUuid string) (*model.Invitation, error)
	// FindByToken 根据令牌查找邀请
	FindByToken(token string) (*model.Invitation, error)
	// Create 创建邀请
	Create(invitation *model.Invitation) error
	// Update 更新邀请（重新生成令牌时使用）
	Update(invitation *model.Invitation) error
	// IncrementUses 原子递增使用计数，用满时自动失活
	// 余量已耗尽时不递增，返回 CodeInvalidState
	IncrementUses(uuid string) error
	// FindUsage 查找 (invitation, user) 使用记录（幂等回放依据）
	FindUsage(invitationUuid, userUuid string) (*model.InvitationUsage, error)
	// CreateUsage 创建使用记录
	CreateUsage(usage *model.InvitationUsage) error
	// CreateQRScan 记录二维码扫描事件（分析用途）
	CreateQRScan(scan *model.QRCodeSession) error
}

// RoomRepository 房间与成员数据访问接口
type RoomRepository interface {
	// FindByUuid 根据 UUID 查找房间
	FindByUuid(uuid string) (*model.Room, error)
	// FindActiveDirectByKey 根据规范化成员对键查找有效单聊房间
	FindActiveDirectByKey(directKey string) (*model.Room, error)
	// FindRoomsByUser 查找用户参与的所有有效房间，按 updated_at 倒序
	FindRoomsByUser(userUuid string) ([]model.Room, error)
	// Create 创建房间
	Create(room *model.Room) error
	// TouchUpdatedAt 推进房间的 updated_at（新消息写入时调用）
	TouchUpdatedAt(roomUuid string, t time.Time) error
	// FindParticipant 查找 (room, user) 成员关系
	FindParticipant(roomUuid, userUuid string) (*model.RoomParticipant, error)
	// FindParticipantsByRoom 查找房间全部成员
	FindParticipantsByRoom(roomUuid string) ([]model.RoomParticipant, error)
	// CreateParticipant 添加成员
	CreateParticipant(participant *model.RoomParticipant) error
	// UpdateLastRead 推进成员读游标
	UpdateLastRead(roomUuid, userUuid string, t time.Time) error
	// CountUnread 计算未读数：created_at > 游标、非自己发送、未软删除
	// 游标为空时统计全部非自己发送的消息
	CountUnread(roomUuid, userUuid string, cursor sql.NullTime) (int64, error)
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// FindByUuid 根据雪花 ID 查找消息
	FindByUuid(uuid int64) (*model.Message, error)
	// FindVisibleByRoom 查找房间内未软删除的消息，最新在前
	// before > 0 时只返回 uuid 更小的消息，limit > 0 时限制条数
	FindVisibleByRoom(roomUuid string, before int64, limit int) ([]model.Message, error)
	// FindLastByRoom 查找房间最新一条未软删除消息
	FindLastByRoom(roomUuid string) (*model.Message, error)
	// Create 追加消息
	Create(message *model.Message) error
	// Update 更新消息（编辑/软删除标记）
	Update(message *model.Message) error
	// FindStatus 查找 (message, user) 状态记录
	FindStatus(messageUuid int64, userUuid string) (*model.MessageStatus, error)
	// CreateStatus 创建状态记录
	CreateStatus(status *model.MessageStatus) error
	// UpdateStatus 更新状态记录
	UpdateStatus(status *model.MessageStatus) error
}

// StatusRepository 动态数据访问接口
type StatusRepository interface {
	// FindByUuid 根据 UUID 查找动态
	FindByUuid(uuid string) (*model.StatusUpdate, error)
	// FindFeed 查找用户可见的未过期动态（排除本人），按创建时间倒序去重
	// contactOwnerUuids 为拥有指向该用户未拉黑边的所有 owner
	FindFeed(userUuid string, contactOwnerUuids []string, now time.Time) ([]model.StatusUpdate, error)
	// FindActiveByOwner 查找用户本人的未过期动态
	FindActiveByOwner(ownerUuid string, now time.Time) ([]model.StatusUpdate, error)
	// Create 创建动态
	Create(status *model.StatusUpdate) error
	// Delete 删除动态（级联移除白名单/浏览/表态由外键约束负责）
	Delete(uuid string) error
	// CreateViewers 批量写入自定义可见白名单
	CreateViewers(viewers []model.StatusViewer) error
	// FindViewer 查找 (status, user) 白名单记录
	FindViewer(statusUuid, userUuid string) (*model.StatusViewer, error)
	// CreateViewIfAbsent 条件插入浏览记录，返回是否为首次插入
	// 依赖 (status, viewer) 唯一索引实现并发下的恰好一次
	CreateViewIfAbsent(view *model.StatusView) (bool, error)
	// IncrementViewCount 浏览计数加一（仅在首次插入浏览记录后调用）
	IncrementViewCount(statusUuid string) error
	// FindViewsByStatus 查找动态的全部浏览记录
	FindViewsByStatus(statusUuid string) ([]model.StatusView, error)
	// UpsertReaction 写入/覆盖 (status, user) 表态
	UpsertReaction(reaction *model.StatusReaction) error
	// DeleteReaction 移除 (status, user) 表态
	DeleteReaction(statusUuid, userUuid string) error
}

// CallRepository 通话信令数据访问接口
type CallRepository interface {
	// FindByUuid 根据 UUID 查找通话
	FindByUuid(uuid string) (*model.VideoCall, error)
	// FindActiveByRoom 查找房间内处于 initiated/ringing/accepted 的通话
	FindActiveByRoom(roomUuid string) (*model.VideoCall, error)
	// FindHistoryByUser 查找用户作为主叫或被叫的通话记录，按发起时间倒序
	FindHistoryByUser(userUuid string, limit int) ([]model.VideoCall, error)
	// Create 创建通话
	Create(call *model.VideoCall) error
	// Update 更新通话状态
	Update(call *model.VideoCall) error
	// FindParticipant 查找 (call, user) 参与记录
	FindParticipant(callUuid, userUuid string) (*model.CallParticipant, error)
	// CreateParticipant 添加参与者
	CreateParticipant(participant *model.CallParticipant) error
	// UpdateParticipant 更新参与记录（离开时间、ICE 候选追加）
	UpdateParticipant(participant *model.CallParticipant) error
	// MarkAllLeft 为所有仍在通话中的参与者补写离开时间
	MarkAllLeft(callUuid string, t time.Time) error
}
