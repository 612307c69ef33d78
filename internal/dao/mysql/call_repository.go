package mysql

import (
	"time"

	"wave_chat_server/internal/model"

	"gorm.io/gorm"
)

type callRepository struct {
	db *gorm.DB
}

// NewCallRepository 创建通话 Repository
func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

// FindByUuid 根据 UUID 查找通话
func (r *callRepository) FindByUuid(uuid string) (*model.VideoCall, error) {
	var call model.VideoCall
	if err := r.db.Where("uuid = ?", uuid).First(&call).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询通话 uuid=%s", uuid)
	}
	return &call, nil
}

// FindActiveByRoom 查找房间内处于 initiated/ringing/accepted 的通话
func (r *callRepository) FindActiveByRoom(roomUuid string) (*model.VideoCall, error) {
	var call model.VideoCall
	if err := r.db.Where("room_uuid = ? AND status IN ?", roomUuid,
		[]int8{model.CallStatusInitiated, model.CallStatusRinging, model.CallStatusAccepted}).
		First(&call).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询进行中通话 room=%s", roomUuid)
	}
	return &call, nil
}

// FindHistoryByUser 查找用户作为主叫或被叫的通话记录，按发起时间倒序
func (r *callRepository) FindHistoryByUser(userUuid string, limit int) ([]model.VideoCall, error) {
	var calls []model.VideoCall
	if err := r.db.Where("caller_uuid = ? OR receiver_uuid = ?", userUuid, userUuid).
		Order("initiated_at DESC").Limit(limit).Find(&calls).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询通话记录 user=%s", userUuid)
	}
	return calls, nil
}

// Create 创建通话
func (r *callRepository) Create(call *model.VideoCall) error {
	if err := r.db.Create(call).Error; err != nil {
		return wrapDBError(err, "创建通话")
	}
	return nil
}

// Update 更新通话状态
func (r *callRepository) Update(call *model.VideoCall) error {
	if err := r.db.Save(call).Error; err != nil {
		return wrapDBErrorf(err, "更新通话 uuid=%s", call.Uuid)
	}
	return nil
}

// FindParticipant 查找 (call, user) 参与记录
func (r *callRepository) FindParticipant(callUuid, userUuid string) (*model.CallParticipant, error) {
	var participant model.CallParticipant
	if err := r.db.Where("call_uuid = ? AND user_uuid = ?", callUuid, userUuid).
		First(&participant).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询通话参与者 call=%s user=%s", callUuid, userUuid)
	}
	return &participant, nil
}

// CreateParticipant 添加参与者
func (r *callRepository) CreateParticipant(participant *model.CallParticipant) error {
	if err := r.db.Create(participant).Error; err != nil {
		return wrapDBError(err, "添加通话参与者")
	}
	return nil
}

// UpdateParticipant 更新参与记录
func (r *callRepository) UpdateParticipant(participant *model.CallParticipant) error {
	if err := r.db.Save(participant).Error; err != nil {
		return wrapDBErrorf(err, "更新通话参与者 call=%s user=%s", participant.CallUuid, participant.UserUuid)
	}
	return nil
}

// MarkAllLeft 为所有仍在通话中的参与者补写离开时间
func (r *callRepository) MarkAllLeft(callUuid string, t time.Time) error {
	if err := r.db.Model(&model.CallParticipant{}).
		Where("call_uuid = ? AND left_at IS NULL", callUuid).
		Update("left_at", t).Error; err != nil {
		return wrapDBErrorf(err, "标记通话参与者离开 call=%s", callUuid)
	}
	return nil
}
