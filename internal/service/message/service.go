// Package message 实现消息业务逻辑
// 消息内容为端侧加密密文，本服务只负责存取、排序和转发
package message

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/snowflake"
)

// messageService 消息业务逻辑实现
type messageService struct {
	repos    *mysql.Repositories
	notifier relay.Notifier
}

// NewMessageService 构造函数
// notifier 为 nil 时不做实时推送（测试场景）
func NewMessageService(repos *mysql.Repositories, notifier relay.Notifier) *messageService {
	return &messageService{repos: repos, notifier: notifier}
}

// toRespond 模型转响应
func toRespond(m *model.Message) *respond.MessageRespond {
	rsp := &respond.MessageRespond{
		Uuid:       respond.FormatMessageUuid(m.Uuid),
		RoomUuid:   m.RoomUuid,
		SenderUuid: m.SenderUuid,
		Type:       m.Type,
		CreatedAt:  m.CreatedAt.Format(constants.TIME_FORMAT),
		Deleted:    m.IsDeleted(),
	}
	// 已删除消息只保留骨架，密文与附件不再下发
	if !m.IsDeleted() {
		rsp.Ciphertext = m.Ciphertext
		rsp.Nonce = m.Nonce
		rsp.Tag = m.Tag
		rsp.FileUrl = m.FileUrl
		rsp.FileName = m.FileName
		rsp.FileSize = m.FileSize
		rsp.FileType = m.FileType
	}
	if m.ReplyToUuid.Valid {
		rsp.ReplyToUuid = respond.FormatMessageUuid(m.ReplyToUuid.Int64)
	}
	if m.ForwardedFromUuid.Valid {
		rsp.ForwardedFromUuid = respond.FormatMessageUuid(m.ForwardedFromUuid.Int64)
	}
	if m.EditedAt.Valid {
		rsp.EditedAt = m.EditedAt.Time.Format(constants.TIME_FORMAT)
	}
	return rsp
}

// requireParticipant 成员关系门禁
func (s *messageService) requireParticipant(roomUuid, userUuid string) error {
	if _, err := s.repos.Room.FindParticipant(roomUuid, userUuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeForbidden, "不是该房间的成员")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// pushToRoom 向房间全部成员推送事件（含发送者回显）
func (s *messageService) pushToRoom(roomUuid string, event *relay.Event) {
	if s.notifier == nil {
		return
	}
	participants, err := s.repos.Room.FindParticipantsByRoom(roomUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return
	}
	targets := make([]string, 0, len(participants))
	for _, p := range participants {
		targets = append(targets, p.UserUuid)
	}
	s.notifier.PushToUsers(targets, event)
}

// SendMessage 发送消息
// 跨房间的 reply_to 引用静默丢弃；写入后推进房间活跃时间并实时转发
func (s *messageService) SendMessage(senderUuid string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	if err := s.requireParticipant(req.RoomUuid, senderUuid); err != nil {
		return nil, err
	}
	if req.Type == model.MessageTypeText && req.Ciphertext == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "文本消息密文不能为空")
	}

	msg := model.Message{
		Uuid:       snowflake.GenerateID(),
		RoomUuid:   req.RoomUuid,
		SenderUuid: senderUuid,
		Type:       req.Type,
		Ciphertext: req.Ciphertext,
		Nonce:      req.Nonce,
		Tag:        req.Tag,
		FileUrl:    req.FileUrl,
		FileName:   req.FileName,
		FileSize:   req.FileSize,
		FileType:   req.FileType,
	}

	if req.ReplyToUuid != nil {
		if replied, err := s.repos.Message.FindByUuid(*req.ReplyToUuid); err == nil && replied.RoomUuid == req.RoomUuid {
			msg.ReplyToUuid = sql.NullInt64{Int64: *req.ReplyToUuid, Valid: true}
		}
	}
	if req.ForwardedFromUuid != nil {
		if _, err := s.repos.Message.FindByUuid(*req.ForwardedFromUuid); err == nil {
			msg.ForwardedFromUuid = sql.NullInt64{Int64: *req.ForwardedFromUuid, Valid: true}
		}
	}

	if err := s.repos.Message.Create(&msg); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.repos.Room.TouchUpdatedAt(req.RoomUuid, time.Now()); err != nil {
		zap.L().Error(err.Error())
	}

	rsp := toRespond(&msg)
	s.pushToRoom(req.RoomUuid, &relay.Event{
		Kind:     relay.EventMessageNew,
		RoomUuid: req.RoomUuid,
		Data:     rsp,
	})
	return rsp, nil
}

// GetMessageList 房间消息流，最新在前
// Before 传雪花 id 时只返回更早的消息；Limit 为 0 时不限制
func (s *messageService) GetMessageList(userUuid string, req request.ListMessageRequest) ([]respond.MessageRespond, error) {
	if err := s.requireParticipant(req.RoomUuid, userUuid); err != nil {
		return nil, err
	}
	messages, err := s.repos.Message.FindVisibleByRoom(req.RoomUuid, req.Before, req.Limit)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	list := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		list = append(list, *toRespond(&messages[i]))
	}
	return list, nil
}

// EditMessage 编辑本人消息，整组密文替换
func (s *messageService) EditMessage(userUuid string, req request.EditMessageRequest) (*respond.MessageRespond, error) {
	msg, err := s.repos.Message.FindByUuid(req.MessageUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "消息不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if msg.SenderUuid != userUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只能编辑自己的消息")
	}
	if msg.IsDeleted() {
		return nil, errorx.New(errorx.CodeInvalidState, "消息已删除")
	}

	msg.Ciphertext = req.Ciphertext
	msg.Nonce = req.Nonce
	msg.Tag = req.Tag
	msg.EditedAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.repos.Message.Update(msg); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := toRespond(msg)
	s.pushToRoom(msg.RoomUuid, &relay.Event{
		Kind:     relay.EventMessageEdited,
		RoomUuid: msg.RoomUuid,
		Data:     rsp,
	})
	return rsp, nil
}

// DeleteMessage 软删除本人消息
// 重复删除为无副作用成功；消息从流中消失但回复链保持有效
func (s *messageService) DeleteMessage(userUuid string, messageUuid int64) error {
	msg, err := s.repos.Message.FindByUuid(messageUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "消息不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if msg.SenderUuid != userUuid {
		return errorx.New(errorx.CodeForbidden, "只能删除自己的消息")
	}
	if msg.IsDeleted() {
		return nil
	}

	msg.DeletedMark = sql.NullTime{Time: time.Now(), Valid: true}
	if err := s.repos.Message.Update(msg); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	s.pushToRoom(msg.RoomUuid, &relay.Event{
		Kind:     relay.EventMessageDeleted,
		RoomUuid: msg.RoomUuid,
		Data:     map[string]string{"uuid": respond.FormatMessageUuid(messageUuid)},
	})
	return nil
}

// UpsertStatus 上报送达/已读状态
// 状态只允许单调前进，回退写入被忽略；变化后通知发送者
func (s *messageService) UpsertStatus(userUuid string, req request.MessageStatusRequest) error {
	msg, err := s.repos.Message.FindByUuid(req.MessageUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "消息不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if msg.SenderUuid == userUuid {
		return errorx.New(errorx.CodeInvalidParam, "不能上报自己消息的状态")
	}
	if err := s.requireParticipant(msg.RoomUuid, userUuid); err != nil {
		return err
	}

	changed := false
	status, err := s.repos.Message.FindStatus(req.MessageUuid, userUuid)
	if err != nil {
		if errorx.GetCode(err) != errorx.CodeNotFound {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		created := model.MessageStatus{
			MessageUuid: req.MessageUuid,
			UserUuid:    userUuid,
			Status:      req.Status,
		}
		if err := s.repos.Message.CreateStatus(&created); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		changed = true
	} else if req.Status > status.Status {
		status.Status = req.Status
		if err := s.repos.Message.UpdateStatus(status); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
		changed = true
	}

	if changed && s.notifier != nil {
		s.notifier.PushToUsers([]string{msg.SenderUuid}, &relay.Event{
			Kind:     relay.EventMessageStatus,
			RoomUuid: msg.RoomUuid,
			Data: map[string]any{
				"uuid":      respond.FormatMessageUuid(req.MessageUuid),
				"user_uuid": userUuid,
				"status":    req.Status,
			},
		})
	}
	return nil
}
