package mysql

import (
	"wave_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// FindByUuid 根据雪花 ID 查找消息
func (r *messageRepository) FindByUuid(uuid int64) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("uuid = ?", uuid).First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 uuid=%d", uuid)
	}
	return &message, nil
}

// FindVisibleByRoom 查找房间内未软删除的消息，最新在前
// 按雪花 uuid 做 keyset 分页：uuid 随时间单调递增，排序与翻页用同一个键
func (r *messageRepository) FindVisibleByRoom(roomUuid string, before int64, limit int) ([]model.Message, error) {
	query := r.db.Where("room_uuid = ? AND deleted_mark IS NULL", roomUuid)
	if before > 0 {
		query = query.Where("uuid < ?", before)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var messages []model.Message
	if err := query.Order("uuid DESC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间消息 room=%s", roomUuid)
	}
	return messages, nil
}

// FindLastByRoom 查找房间最新一条未软删除消息
func (r *messageRepository) FindLastByRoom(roomUuid string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("room_uuid = ? AND deleted_mark IS NULL", roomUuid).
		Order("created_at DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 room=%s", roomUuid)
	}
	return &message, nil
}

// Create 追加消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// Update 更新消息（编辑/软删除标记）
func (r *messageRepository) Update(message *model.Message) error {
	if err := r.db.Save(message).Error; err != nil {
		return wrapDBErrorf(err, "更新消息 uuid=%d", message.Uuid)
	}
	return nil
}

// FindStatus 查找 (message, user) 状态记录
func (r *messageRepository) FindStatus(messageUuid int64, userUuid string) (*model.MessageStatus, error) {
	var status model.MessageStatus
	if err := r.db.Where("message_uuid = ? AND user_uuid = ?", messageUuid, userUuid).
		First(&status).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息状态 message=%d user=%s", messageUuid, userUuid)
	}
	return &status, nil
}

// CreateStatus 创建状态记录
func (r *messageRepository) CreateStatus(status *model.MessageStatus) error {
	if err := r.db.Create(status).Error; err != nil {
		return wrapDBError(err, "创建消息状态")
	}
	return nil
}

// UpdateStatus 更新状态记录
func (r *messageRepository) UpdateStatus(status *model.MessageStatus) error {
	if err := r.db.Save(status).Error; err != nil {
		return wrapDBErrorf(err, "更新消息状态 message=%d user=%s", status.MessageUuid, status.UserUuid)
	}
	return nil
}
