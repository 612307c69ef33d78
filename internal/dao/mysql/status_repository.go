package mysql

import (
	"time"

	"wave_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type statusRepository struct {
	db *gorm.DB
}

// NewStatusRepository 创建动态 Repository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

// FindByUuid 根据 UUID 查找动态
func (r *statusRepository) FindByUuid(uuid string) (*model.StatusUpdate, error) {
	var status model.StatusUpdate
	if err := r.db.Where("uuid = ?", uuid).First(&status).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询动态 uuid=%s", uuid)
	}
	return &status, nil
}

// FindFeed 查找用户可见的未过期动态（排除本人），按创建时间倒序
// 可见性三分支在一条查询中完成：
//   - 所有人可见
//   - 仅联系人可见，且发布者拥有指向该用户的未拉黑边
//   - 自定义可见，且白名单中存在该用户
func (r *statusRepository) FindFeed(userUuid string, contactOwnerUuids []string, now time.Time) ([]model.StatusUpdate, error) {
	visibility := r.db.Where("visibility = ?", model.VisibilityEveryone)
	if len(contactOwnerUuids) > 0 {
		visibility = visibility.Or("visibility = ? AND owner_uuid IN ?", model.VisibilityContacts, contactOwnerUuids)
	}
	visibility = visibility.Or(
		"visibility = ? AND EXISTS (SELECT 1 FROM status_viewer WHERE status_viewer.status_uuid = status_update.uuid AND status_viewer.user_uuid = ? AND status_viewer.deleted_at IS NULL)",
		model.VisibilityCustom, userUuid,
	)

	var statuses []model.StatusUpdate
	if err := r.db.Model(&model.StatusUpdate{}).
		Where("expires_at > ? AND owner_uuid <> ?", now, userUuid).
		Where(visibility).
		Order("created_at DESC").
		Find(&statuses).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询动态流 user=%s", userUuid)
	}
	return statuses, nil
}

// FindActiveByOwner 查找用户本人的未过期动态
func (r *statusRepository) FindActiveByOwner(ownerUuid string, now time.Time) ([]model.StatusUpdate, error) {
	var statuses []model.StatusUpdate
	if err := r.db.Where("owner_uuid = ? AND expires_at > ?", ownerUuid, now).
		Order("created_at DESC").Find(&statuses).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询本人动态 owner=%s", ownerUuid)
	}
	return statuses, nil
}

// Create 创建动态
func (r *statusRepository) Create(status *model.StatusUpdate) error {
	if err := r.db.Create(status).Error; err != nil {
		return wrapDBError(err, "创建动态")
	}
	return nil
}

// Delete 删除动态
func (r *statusRepository) Delete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.StatusUpdate{}).Error; err != nil {
		return wrapDBErrorf(err, "删除动态 uuid=%s", uuid)
	}
	return nil
}

// CreateViewers 批量写入自定义可见白名单
func (r *statusRepository) CreateViewers(viewers []model.StatusViewer) error {
	if len(viewers) == 0 {
		return nil
	}
	if err := r.db.Create(&viewers).Error; err != nil {
		return wrapDBError(err, "写入动态白名单")
	}
	return nil
}

// FindViewer 查找 (status, user) 白名单记录
func (r *statusRepository) FindViewer(statusUuid, userUuid string) (*model.StatusViewer, error) {
	var viewer model.StatusViewer
	if err := r.db.Where("status_uuid = ? AND user_uuid = ?", statusUuid, userUuid).
		First(&viewer).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询动态白名单 status=%s user=%s", statusUuid, userUuid)
	}
	return &viewer, nil
}

// CreateViewIfAbsent 条件插入浏览记录，返回是否为首次插入
// 通过 (status, viewer) 唯一索引加 ON CONFLICT DO NOTHING 实现并发下的恰好一次，
// 计数递增必须以这里的返回值为条件，绝不盲目加一
func (r *statusRepository) CreateViewIfAbsent(view *model.StatusView) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(view)
	if result.Error != nil {
		return false, wrapDBError(result.Error, "写入动态浏览记录")
	}
	return result.RowsAffected > 0, nil
}

// IncrementViewCount 浏览计数加一
func (r *statusRepository) IncrementViewCount(statusUuid string) error {
	if err := r.db.Model(&model.StatusUpdate{}).Where("uuid = ?", statusUuid).
		Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return wrapDBErrorf(err, "递增浏览计数 status=%s", statusUuid)
	}
	return nil
}

// FindViewsByStatus 查找动态的全部浏览记录
func (r *statusRepository) FindViewsByStatus(statusUuid string) ([]model.StatusView, error) {
	var views []model.StatusView
	if err := r.db.Where("status_uuid = ?", statusUuid).
		Order("created_at DESC").Find(&views).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询动态浏览记录 status=%s", statusUuid)
	}
	return views, nil
}

// UpsertReaction 写入/覆盖 (status, user) 表态
// 同一用户重复表态时覆盖原值而非新增
func (r *statusRepository) UpsertReaction(reaction *model.StatusReaction) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "status_uuid"}, {Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
	}).Create(reaction).Error; err != nil {
		return wrapDBError(err, "写入动态表态")
	}
	return nil
}

// DeleteReaction 移除 (status, user) 表态
func (r *statusRepository) DeleteReaction(statusUuid, userUuid string) error {
	result := r.db.Where("status_uuid = ? AND user_uuid = ?", statusUuid, userUuid).
		Delete(&model.StatusReaction{})
	if result.Error != nil {
		return wrapDBErrorf(result.Error, "移除动态表态 status=%s user=%s", statusUuid, userUuid)
	}
	if result.RowsAffected == 0 {
		return wrapDBErrorf(gorm.ErrRecordNotFound, "动态表态不存在 status=%s user=%s", statusUuid, userUuid)
	}
	return nil
}
