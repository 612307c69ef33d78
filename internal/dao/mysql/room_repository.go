package mysql

import (
	"database/sql"
	"time"

	"wave_chat_server/internal/model"

	"gorm.io/gorm"
)

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间 Repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// FindByUuid 根据 UUID 查找房间
func (r *roomRepository) FindByUuid(uuid string) (*model.Room, error) {
	var room model.Room
	if err := r.db.Where("uuid = ?", uuid).First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间 uuid=%s", uuid)
	}
	return &room, nil
}

// FindActiveDirectByKey 根据规范化成员对键查找有效单聊房间
func (r *roomRepository) FindActiveDirectByKey(directKey string) (*model.Room, error) {
	var room model.Room
	if err := r.db.Where("direct_key = ? AND is_active = ?", directKey, true).
		First(&room).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询单聊房间 key=%s", directKey)
	}
	return &room, nil
}

// FindRoomsByUser 查找用户参与的所有有效房间，按 updated_at 倒序
func (r *roomRepository) FindRoomsByUser(userUuid string) ([]model.Room, error) {
	var rooms []model.Room
	if err := r.db.
		Joins("JOIN room_participant ON room_participant.room_uuid = room.uuid AND room_participant.deleted_at IS NULL").
		Where("room_participant.user_uuid = ? AND room.is_active = ?", userUuid, true).
		Order("room.updated_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户房间列表 user=%s", userUuid)
	}
	return rooms, nil
}

// Create 创建房间
func (r *roomRepository) Create(room *model.Room) error {
	if err := r.db.Create(room).Error; err != nil {
		return wrapDBError(err, "创建房间")
	}
	return nil
}

// TouchUpdatedAt 推进房间的 updated_at
func (r *roomRepository) TouchUpdatedAt(roomUuid string, t time.Time) error {
	if err := r.db.Model(&model.Room{}).Where("uuid = ?", roomUuid).
		Update("updated_at", t).Error; err != nil {
		return wrapDBErrorf(err, "更新房间时间 uuid=%s", roomUuid)
	}
	return nil
}

// FindParticipant 查找 (room, user) 成员关系
func (r *roomRepository) FindParticipant(roomUuid, userUuid string) (*model.RoomParticipant, error) {
	var participant model.RoomParticipant
	if err := r.db.Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).
		First(&participant).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员 room=%s user=%s", roomUuid, userUuid)
	}
	return &participant, nil
}

// FindParticipantsByRoom 查找房间全部成员
func (r *roomRepository) FindParticipantsByRoom(roomUuid string) ([]model.RoomParticipant, error) {
	var participants []model.RoomParticipant
	if err := r.db.Where("room_uuid = ?", roomUuid).Find(&participants).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询房间成员列表 room=%s", roomUuid)
	}
	return participants, nil
}

// CreateParticipant 添加成员
func (r *roomRepository) CreateParticipant(participant *model.RoomParticipant) error {
	if err := r.db.Create(participant).Error; err != nil {
		return wrapDBError(err, "添加房间成员")
	}
	return nil
}

// UpdateLastRead 推进成员读游标
func (r *roomRepository) UpdateLastRead(roomUuid, userUuid string, t time.Time) error {
	if err := r.db.Model(&model.RoomParticipant{}).
		Where("room_uuid = ? AND user_uuid = ?", roomUuid, userUuid).
		Update("last_read_at", t).Error; err != nil {
		return wrapDBErrorf(err, "更新读游标 room=%s user=%s", roomUuid, userUuid)
	}
	return nil
}

// CountUnread 计算未读数：created_at > 游标、非自己发送、未软删除
// 游标为空时统计全部非自己发送的消息
func (r *roomRepository) CountUnread(roomUuid, userUuid string, cursor sql.NullTime) (int64, error) {
	query := r.db.Model(&model.Message{}).
		Where("room_uuid = ? AND sender_uuid <> ? AND deleted_mark IS NULL", roomUuid, userUuid)
	if cursor.Valid {
		query = query.Where("created_at > ?", cursor.Time)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "计算未读数 room=%s user=%s", roomUuid, userUuid)
	}
	return count, nil
}
