package mysql

import (
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository 创建邀请 Repository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

// FindNewestByOwner 查找用户最新的邀请
func (r *invitationRepository) FindNewestByOwner(ownerUuid string) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.Where("owner_uuid = ?", ownerUuid).
		Order("created_at DESC").First(&invitation).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询邀请 owner=%s", ownerUuid)
	}
	return &invitation, nil
}

// FindByToken 根据令牌查找邀请
func (r *invitationRepository) FindByToken(token string) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, wrapDBError(err, "查询邀请令牌")
	}
	return &invitation, nil
}

// Create 创建邀请
func (r *invitationRepository) Create(invitation *model.Invitation) error {
	if err := r.db.Create(invitation).Error; err != nil {
		return wrapDBError(err, "创建邀请")
	}
	return nil
}

// Update 更新邀请
func (r *invitationRepository) Update(invitation *model.Invitation) error {
	if err := r.db.Save(invitation).Error; err != nil {
		return wrapDBErrorf(err, "更新邀请 uuid=%s", invitation.Uuid)
	}
	return nil
}

// IncrementUses 原子递增使用计数，用满时自动失活
// 生成 SQL 的 SET 赋值顺序不可控，is_active 用 uses_count + 1 预判递增后的余量，
// 不依赖 uses_count 先被赋值；WHERE 上的 uses_count < max_uses 挡住并发接受
// 把计数推过上限，没有命中行时返回 CodeInvalidState，由调用方回滚事务
func (r *invitationRepository) IncrementUses(uuid string) error {
	result := r.db.Model(&model.Invitation{}).
		Where("uuid = ? AND uses_count < max_uses", uuid).
		Updates(map[string]interface{}{
			"uses_count": gorm.Expr("uses_count + 1"),
			"is_active":  gorm.Expr("uses_count + 1 < max_uses"),
		})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "递增邀请使用计数 uuid=%s", uuid)
	}
	if result.RowsAffected == 0 {
		return errorx.New(errorx.CodeInvalidState, "邀请已过期或已用完")
	}
	return nil
}

// FindUsage 查找 (invitation, user) 使用记录
func (r *invitationRepository) FindUsage(invitationUuid, userUuid string) (*model.InvitationUsage, error) {
	var usage model.InvitationUsage
	if err := r.db.Where("invitation_uuid = ? AND user_uuid = ?", invitationUuid, userUuid).
		First(&usage).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询邀请使用记录 invitation=%s user=%s", invitationUuid, userUuid)
	}
	return &usage, nil
}

// CreateUsage 创建使用记录
func (r *invitationRepository) CreateUsage(usage *model.InvitationUsage) error {
	if err := r.db.Create(usage).Error; err != nil {
		return wrapDBError(err, "创建邀请使用记录")
	}
	return nil
}

// CreateQRScan 记录二维码扫描事件
func (r *invitationRepository) CreateQRScan(scan *model.QRCodeSession) error {
	if err := r.db.Create(scan).Error; err != nil {
		return wrapDBError(err, "记录二维码扫描")
	}
	return nil
}
