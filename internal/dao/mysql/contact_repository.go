package mysql

import (
	"wave_chat_server/internal/model"

	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系人 Repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// FindByOwnerAndTarget 查找指定有向边
func (r *contactRepository) FindByOwnerAndTarget(ownerUuid, targetUuid string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.Where("owner_uuid = ? AND target_uuid = ?", ownerUuid, targetUuid).First(&contact).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询联系人 owner=%s target=%s", ownerUuid, targetUuid)
	}
	return &contact, nil
}

// FindByOwner 查找用户的所有联系人
func (r *contactRepository) FindByOwner(ownerUuid string) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.Where("owner_uuid = ?", ownerUuid).Find(&contacts).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询联系人列表 owner=%s", ownerUuid)
	}
	return contacts, nil
}

// FindOwnersHavingContact 反向查找：拥有指向 target 的未拉黑边的所有 owner
func (r *contactRepository) FindOwnersHavingContact(targetUuid string) ([]string, error) {
	var owners []string
	if err := r.db.Model(&model.Contact{}).
		Where("target_uuid = ? AND blocked = ?", targetUuid, false).
		Pluck("owner_uuid", &owners).Error; err != nil {
		return nil, wrapDBErrorf(err, "反向查询联系人 target=%s", targetUuid)
	}
	return owners, nil
}

// Create 创建联系边
func (r *contactRepository) Create(contact *model.Contact) error {
	if err := r.db.Create(contact).Error; err != nil {
		return wrapDBError(err, "创建联系人关系")
	}
	return nil
}

// Update 更新联系边（备注名、拉黑标志）
func (r *contactRepository) Update(contact *model.Contact) error {
	if err := r.db.Save(contact).Error; err != nil {
		return wrapDBErrorf(err, "更新联系人关系 owner=%s target=%s", contact.OwnerUuid, contact.TargetUuid)
	}
	return nil
}
