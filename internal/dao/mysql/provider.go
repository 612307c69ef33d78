// Package mysql 提供 Repository 层聚合与构造
package mysql

import (
	"gorm.io/gorm"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db         *gorm.DB             // GORM 数据库实例
	User       UserRepository       // 用户 Repository
	Contact    ContactRepository    // 联系人 Repository
	Invitation InvitationRepository // 邀请 Repository
	Room       RoomRepository       // 房间 Repository
	Message    MessageRepository    // 消息 Repository
	Status     StatusRepository     // 动态 Repository
	Call       CallRepository       // 通话 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		User:       NewUserRepository(db),
		Contact:    NewContactRepository(db),
		Invitation: NewInvitationRepository(db),
		Room:       NewRoomRepository(db),
		Message:    NewMessageRepository(db),
		Status:     NewStatusRepository(db),
		Call:       NewCallRepository(db),
	}
}

// NewRepositoriesFrom 用已有实现组装聚合结构
// 供测试注入内存 Repository 使用，不附带数据库实例
func NewRepositoriesFrom(
	user UserRepository,
	contact ContactRepository,
	invitation InvitationRepository,
	room RoomRepository,
	message MessageRepository,
	status StatusRepository,
	call CallRepository,
) *Repositories {
	return &Repositories{
		User:       user,
		Contact:    contact,
		Invitation: invitation,
		Room:       room,
		Message:    message,
		Status:     status,
		Call:       call,
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// 未附带数据库实例时（内存实现）直接执行，由实现自身保证一致性
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
