// Package call 实现通话信令业务逻辑
// 只维护信令状态机与 SDP/ICE 载荷透传，媒体流由 WebRTC 对端自行建立
package call

import (
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/random"
)

// callService 通话业务逻辑实现
type callService struct {
	repos    *mysql.Repositories
	notifier relay.Notifier
}

// NewCallService 构造函数
func NewCallService(repos *mysql.Repositories, notifier relay.Notifier) *callService {
	return &callService{repos: repos, notifier: notifier}
}

// isTerminal 终态判定：ended/declined/missed/failed 不再迁移
func isTerminal(status int8) bool {
	switch status {
	case model.CallStatusEnded, model.CallStatusDeclined, model.CallStatusMissed, model.CallStatusFailed:
		return true
	}
	return false
}

func toRespond(c *model.VideoCall) *respond.CallRespond {
	rsp := &respond.CallRespond{
		Uuid:         c.Uuid,
		RoomUuid:     c.RoomUuid,
		CallerUuid:   c.CallerUuid,
		ReceiverUuid: c.ReceiverUuid,
		Type:         c.Type,
		Status:       c.Status,
		OfferSdp:     c.OfferSdp,
		AnswerSdp:    c.AnswerSdp,
	}
	if c.InitiatedAt.Valid {
		rsp.InitiatedAt = c.InitiatedAt.Time.Format(constants.TIME_FORMAT)
	}
	if c.AnsweredAt.Valid {
		rsp.AnsweredAt = c.AnsweredAt.Time.Format(constants.TIME_FORMAT)
	}
	if c.EndedAt.Valid {
		rsp.EndedAt = c.EndedAt.Time.Format(constants.TIME_FORMAT)
	}
	if c.DurationSec.Valid {
		rsp.DurationSec = c.DurationSec.Int64
	}
	return rsp
}

// push 向指定用户推送通话事件
func (s *callService) push(targetUuid, kind string, c *model.VideoCall) {
	if s.notifier == nil {
		return
	}
	s.notifier.PushToUsers([]string{targetUuid}, &relay.Event{
		Kind:     kind,
		RoomUuid: c.RoomUuid,
		Data:     toRespond(c),
	})
}

// Initiate 发起通话
// 仅支持单聊房间；房间内已有未结束通话时拒绝；创建即进入振铃态并通知被叫
func (s *callService) Initiate(callerUuid string, req request.InitiateCallRequest) (*respond.CallRespond, error) {
	callRoom, err := s.repos.Room.FindByUuid(req.RoomUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "房间不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if callRoom.Type != model.RoomTypeDirect {
		return nil, errorx.New(errorx.CodeInvalidState, "群聊暂不支持通话")
	}

	participants, err := s.repos.Room.FindParticipantsByRoom(req.RoomUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	receiverUuid := ""
	isMember := false
	for _, p := range participants {
		if p.UserUuid == callerUuid {
			isMember = true
		} else {
			receiverUuid = p.UserUuid
		}
	}
	if !isMember {
		return nil, errorx.New(errorx.CodeForbidden, "不是该房间的成员")
	}
	if receiverUuid == "" {
		return nil, errorx.New(errorx.CodeInvalidState, "房间缺少通话对端")
	}

	if _, err := s.repos.Call.FindActiveByRoom(req.RoomUuid); err == nil {
		return nil, errorx.New(errorx.CodeConflict, "房间内已有通话进行中")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	now := time.Now()
	newCall := model.VideoCall{
		Uuid:         "C" + random.GetNowAndLenRandomString(13),
		RoomUuid:     req.RoomUuid,
		CallerUuid:   callerUuid,
		ReceiverUuid: receiverUuid,
		Type:         req.Type,
		Status:       model.CallStatusRinging,
		InitiatedAt:  sql.NullTime{Time: now, Valid: true},
		OfferSdp:     req.OfferSdp,
	}
	if err := s.repos.Call.Create(&newCall); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.repos.Call.CreateParticipant(&model.CallParticipant{
		CallUuid: newCall.Uuid,
		UserUuid: callerUuid,
		JoinedAt: sql.NullTime{Time: now, Valid: true},
	}); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.push(receiverUuid, relay.EventCallIncoming, &newCall)
	return toRespond(&newCall), nil
}

// findCall 查找通话，统一错误翻译
func (s *callService) findCall(callUuid string) (*model.VideoCall, error) {
	c, err := s.repos.Call.FindByUuid(callUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "通话不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return c, nil
}

// Accept 被叫接听：ringing → accepted，记录接听时间与 answer SDP
func (s *callService) Accept(userUuid string, req request.AcceptCallRequest) (*respond.CallRespond, error) {
	c, err := s.findCall(req.CallUuid)
	if err != nil {
		return nil, err
	}
	if c.ReceiverUuid != userUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只有被叫可以接听")
	}
	if c.Status != model.CallStatusRinging {
		return nil, errorx.New(errorx.CodeInvalidState, "通话不在振铃状态")
	}
	if req.AnswerSdp == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "接听必须携带 answer SDP")
	}

	now := time.Now()
	c.Status = model.CallStatusAccepted
	c.AnsweredAt = sql.NullTime{Time: now, Valid: true}
	c.AnswerSdp = req.AnswerSdp
	if err := s.repos.Call.Update(c); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.repos.Call.CreateParticipant(&model.CallParticipant{
		CallUuid: c.Uuid,
		UserUuid: userUuid,
		JoinedAt: sql.NullTime{Time: now, Valid: true},
	}); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.push(c.CallerUuid, relay.EventCallAccepted, c)
	return toRespond(c), nil
}

// Decline 被叫拒接：initiated/ringing → declined，不产生通话时长
func (s *callService) Decline(userUuid, callUuid string) (*respond.CallRespond, error) {
	c, err := s.findCall(callUuid)
	if err != nil {
		return nil, err
	}
	if c.ReceiverUuid != userUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只有被叫可以拒接")
	}
	if c.Status != model.CallStatusInitiated && c.Status != model.CallStatusRinging {
		return nil, errorx.New(errorx.CodeInvalidState, "通话不在可拒接状态")
	}

	now := time.Now()
	c.Status = model.CallStatusDeclined
	c.EndedAt = sql.NullTime{Time: now, Valid: true}
	if err := s.repos.Call.Update(c); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.repos.Call.MarkAllLeft(c.Uuid, now); err != nil {
		zap.L().Error(err.Error())
	}

	s.push(c.CallerUuid, relay.EventCallDeclined, c)
	return toRespond(c), nil
}

// End 任一方挂断
// 时长只在接听过的通话上计算：ended_at − answered_at，振铃时间不计入
func (s *callService) End(userUuid, callUuid string) (*respond.CallRespond, error) {
	c, err := s.findCall(callUuid)
	if err != nil {
		return nil, err
	}
	if c.CallerUuid != userUuid && c.ReceiverUuid != userUuid {
		return nil, errorx.New(errorx.CodeForbidden, "不是该通话的参与方")
	}
	if isTerminal(c.Status) {
		return nil, errorx.New(errorx.CodeAlreadyEnded, "通话已结束")
	}

	now := time.Now()
	c.Status = model.CallStatusEnded
	c.EndedAt = sql.NullTime{Time: now, Valid: true}
	if c.AnsweredAt.Valid {
		c.DurationSec = sql.NullInt64{Int64: int64(now.Sub(c.AnsweredAt.Time).Seconds()), Valid: true}
	}
	if err := s.repos.Call.Update(c); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err := s.repos.Call.MarkAllLeft(c.Uuid, now); err != nil {
		zap.L().Error(err.Error())
	}

	peer := c.CallerUuid
	if userUuid == c.CallerUuid {
		peer = c.ReceiverUuid
	}
	s.push(peer, relay.EventCallEnded, c)
	return toRespond(c), nil
}

// GetHistory 通话记录，主叫或被叫视角，最新在前
func (s *callService) GetHistory(userUuid string) ([]respond.CallRespond, error) {
	calls, err := s.repos.Call.FindHistoryByUser(userUuid, constants.CALL_HISTORY_LIMIT)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	list := make([]respond.CallRespond, 0, len(calls))
	for i := range calls {
		list = append(list, *toRespond(&calls[i]))
	}
	return list, nil
}

// AddIceCandidate 追加 ICE candidate
// 候选作为不透明载荷追加到参与记录，并实时转发给对端
func (s *callService) AddIceCandidate(userUuid string, req request.IceCandidateRequest) error {
	c, err := s.findCall(req.CallUuid)
	if err != nil {
		return err
	}
	if c.CallerUuid != userUuid && c.ReceiverUuid != userUuid {
		return errorx.New(errorx.CodeForbidden, "不是该通话的参与方")
	}
	if isTerminal(c.Status) {
		return errorx.New(errorx.CodeAlreadyEnded, "通话已结束")
	}

	participant, err := s.repos.Call.FindParticipant(req.CallUuid, userUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeInvalidState, "尚未加入通话")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	var candidates []string
	if participant.IceCandidates != "" {
		if err := json.Unmarshal([]byte(participant.IceCandidates), &candidates); err != nil {
			zap.L().Warn("ICE候选列表损坏，重置", zap.String("call", c.Uuid), zap.Error(err))
			candidates = nil
		}
	}
	candidates = append(candidates, req.Candidate)
	data, err := json.Marshal(candidates)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	participant.IceCandidates = string(data)
	if err := s.repos.Call.UpdateParticipant(participant); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	peer := c.CallerUuid
	if userUuid == c.CallerUuid {
		peer = c.ReceiverUuid
	}
	if s.notifier != nil {
		s.notifier.PushToUsers([]string{peer}, &relay.Event{
			Kind:     relay.EventCallIce,
			RoomUuid: c.RoomUuid,
			Data: map[string]string{
				"call_uuid": c.Uuid,
				"from_uuid": userUuid,
				"candidate": req.Candidate,
			},
		})
	}
	return nil
}
