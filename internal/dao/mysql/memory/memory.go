// Package memory 提供 Repository 接口的内存实现
// 供单元测试注入使用，不依赖数据库；错误码与 GORM 实现保持一致：
// 未找到返回 CodeNotFound，唯一约束冲突返回 CodeConflict
package memory

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/errorx"
)

// store 全部表的内存存储
// 所有 Repository 共享同一个 store，跨表查询（未读数、动态流）才能成立
type store struct {
	mu     sync.Mutex
	autoID uint
	last   time.Time

	users            []model.UserInfo
	contacts         []model.Contact
	invitations      []model.Invitation
	usages           []model.InvitationUsage
	scans            []model.QRCodeSession
	rooms            []model.Room
	participants     []model.RoomParticipant
	messages         []model.Message
	messageStatuses  []model.MessageStatus
	statuses         []model.StatusUpdate
	statusViewers    []model.StatusViewer
	statusViews      []model.StatusView
	statusReactions  []model.StatusReaction
	calls            []model.VideoCall
	callParticipants []model.CallParticipant
}

// NewRepositories 组装一套共享内存存储的 Repository 聚合
func NewRepositories() *mysql.Repositories {
	s := &store{}
	return mysql.NewRepositoriesFrom(
		&userRepo{s},
		&contactRepo{s},
		&invitationRepo{s},
		&roomRepo{s},
		&messageRepo{s},
		&statusRepo{s},
		&callRepo{s},
	)
}

// stamp 分配自增 ID 与严格递增的创建时间
// 时间保持接近真实时钟，保证与 Service 层 time.Now() 写入的游标可比
func (s *store) stamp(m *gorm.Model) {
	s.autoID++
	now := time.Now()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	m.ID = s.autoID
	m.CreatedAt = now
	m.UpdatedAt = now
}

func notFound(msg string) error {
	return errorx.New(errorx.CodeNotFound, msg)
}

func conflict(msg string) error {
	return errorx.New(errorx.CodeConflict, msg)
}

// ==================== 用户 ====================

type userRepo struct{ s *store }

func (r *userRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == uuid {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound("用户不存在")
}

func (r *userRepo) FindByEmail(email string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound("用户不存在")
}

func (r *userRepo) FindByUsername(username string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Username == username {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, notFound("用户不存在")
}

func (r *userRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]struct{}, len(uuids))
	for _, uuid := range uuids {
		want[uuid] = struct{}{}
	}
	var list []model.UserInfo
	for i := range r.s.users {
		if _, ok := want[r.s.users[i].Uuid]; ok {
			list = append(list, r.s.users[i])
		}
	}
	return list, nil
}

// hashPassword 与 GORM BeforeSave Hook 等价的密码加密
func hashPassword(u *model.UserInfo) error {
	if u.RawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.RawPassword = ""
	return nil
}

func (r *userRepo) Create(user *model.UserInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == user.Uuid ||
			r.s.users[i].Username == user.Username ||
			r.s.users[i].Email == user.Email {
			return conflict("用户已存在")
		}
	}
	if err := hashPassword(user); err != nil {
		return errorx.Wrap(err, errorx.CodeDBError, "密码加密失败")
	}
	r.s.stamp(&user.Model)
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *userRepo) Update(user *model.UserInfo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Username == user.Username && r.s.users[i].Uuid != user.Uuid {
			return conflict("用户名已被占用")
		}
	}
	if err := hashPassword(user); err != nil {
		return errorx.Wrap(err, errorx.CodeDBError, "密码加密失败")
	}
	for i := range r.s.users {
		if r.s.users[i].Uuid == user.Uuid {
			r.s.users[i] = *user
			return nil
		}
	}
	return notFound("用户不存在")
}

func (r *userRepo) SetOnline(uuid string, online bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Uuid == uuid {
			r.s.users[i].IsOnline = online
			if !online {
				r.s.users[i].LastSeenAt.Time = time.Now()
				r.s.users[i].LastSeenAt.Valid = true
			}
			return nil
		}
	}
	return nil
}

// ==================== 联系人 ====================

type contactRepo struct{ s *store }

func (r *contactRepo) FindByOwnerAndTarget(ownerUuid, targetUuid string) (*model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.contacts {
		if r.s.contacts[i].OwnerUuid == ownerUuid && r.s.contacts[i].TargetUuid == targetUuid {
			c := r.s.contacts[i]
			return &c, nil
		}
	}
	return nil, notFound("联系人不存在")
}

func (r *contactRepo) FindByOwner(ownerUuid string) ([]model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []model.Contact
	for i := range r.s.contacts {
		if r.s.contacts[i].OwnerUuid == ownerUuid {
			list = append(list, r.s.contacts[i])
		}
	}
	return list, nil
}

func (r *contactRepo) FindOwnersHavingContact(targetUuid string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var owners []string
	for i := range r.s.contacts {
		if r.s.contacts[i].TargetUuid == targetUuid && !r.s.contacts[i].Blocked {
			owners = append(owners, r.s.contacts[i].OwnerUuid)
		}
	}
	return owners, nil
}

func (r *contactRepo) Create(contact *model.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.contacts {
		if r.s.contacts[i].OwnerUuid == contact.OwnerUuid && r.s.contacts[i].TargetUuid == contact.TargetUuid {
			return conflict("联系人已存在")
		}
	}
	r.s.stamp(&contact.Model)
	r.s.contacts = append(r.s.contacts, *contact)
	return nil
}

func (r *contactRepo) Update(contact *model.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.contacts {
		if r.s.contacts[i].OwnerUuid == contact.OwnerUuid && r.s.contacts[i].TargetUuid == contact.TargetUuid {
			r.s.contacts[i] = *contact
			return nil
		}
	}
	return notFound("联系人不存在")
}

// ==================== 邀请 ====================

type invitationRepo struct{ s *store }

func (r *invitationRepo) FindNewestByOwner(ownerUuid string) (*model.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.invitations) - 1; i >= 0; i-- {
		if r.s.invitations[i].OwnerUuid == ownerUuid {
			inv := r.s.invitations[i]
			return &inv, nil
		}
	}
	return nil, notFound("邀请不存在")
}

func (r *invitationRepo) FindByToken(token string) (*model.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Token == token {
			inv := r.s.invitations[i]
			return &inv, nil
		}
	}
	return nil, notFound("邀请令牌不存在")
}

func (r *invitationRepo) Create(invitation *model.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Token == invitation.Token {
			return conflict("令牌冲突")
		}
	}
	r.s.stamp(&invitation.Model)
	r.s.invitations = append(r.s.invitations, *invitation)
	return nil
}

func (r *invitationRepo) Update(invitation *model.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Uuid == invitation.Uuid {
			r.s.invitations[i] = *invitation
			return nil
		}
	}
	return notFound("邀请不存在")
}

func (r *invitationRepo) IncrementUses(uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.invitations {
		if r.s.invitations[i].Uuid == uuid {
			// 与 SQL 版本的 WHERE uses_count < max_uses 一致，已用完时不再递增
			if r.s.invitations[i].UsesCount >= r.s.invitations[i].MaxUses {
				return errorx.New(errorx.CodeInvalidState, "邀请已过期或已用完")
			}
			r.s.invitations[i].UsesCount++
			r.s.invitations[i].IsActive = r.s.invitations[i].UsesCount < r.s.invitations[i].MaxUses
			return nil
		}
	}
	return errorx.New(errorx.CodeInvalidState, "邀请已过期或已用完")
}

func (r *invitationRepo) FindUsage(invitationUuid, userUuid string) (*model.InvitationUsage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.usages {
		if r.s.usages[i].InvitationUuid == invitationUuid && r.s.usages[i].UserUuid == userUuid {
			usage := r.s.usages[i]
			return &usage, nil
		}
	}
	return nil, notFound("使用记录不存在")
}

func (r *invitationRepo) CreateUsage(usage *model.InvitationUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.usages {
		if r.s.usages[i].InvitationUuid == usage.InvitationUuid && r.s.usages[i].UserUuid == usage.UserUuid {
			return conflict("使用记录已存在")
		}
	}
	r.s.stamp(&usage.Model)
	r.s.usages = append(r.s.usages, *usage)
	return nil
}

func (r *invitationRepo) CreateQRScan(scan *model.QRCodeSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&scan.Model)
	r.s.scans = append(r.s.scans, *scan)
	return nil
}
