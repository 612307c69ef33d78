// Package room 实现房间与成员业务逻辑
package room

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/random"
)

// roomService 房间业务逻辑实现
type roomService struct {
	repos *mysql.Repositories
}

// NewRoomService 构造函数
func NewRoomService(repos *mysql.Repositories) *roomService {
	return &roomService{repos: repos}
}

// DirectKey 单聊成员对的规范化键："小uuid_大uuid"
// 同一对用户无论谁发起，键都相同
func DirectKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// FindOrCreateDirect 在给定 Repository 集合内查找或创建单聊房间
// 返回房间与是否为新建；应在事务内调用，创建撞唯一索引时回退到复用既有房间
func FindOrCreateDirect(repos *mysql.Repositories, a, b string, now time.Time) (*model.Room, bool, error) {
	key := DirectKey(a, b)
	existing, err := repos.Room.FindActiveDirectByKey(key)
	if err == nil {
		return existing, false, nil
	}
	if errorx.GetCode(err) != errorx.CodeNotFound {
		return nil, false, err
	}

	room := model.Room{
		Uuid:        "R" + random.GetNowAndLenRandomString(13),
		Type:        model.RoomTypeDirect,
		CreatorUuid: sql.NullString{String: a, Valid: true},
		DirectKey:   sql.NullString{String: key, Valid: true},
		IsActive:    true,
	}
	if err := repos.Room.Create(&room); err != nil {
		// 并发创建撞 direct_key 唯一索引：复用赢家的房间
		if errorx.GetCode(err) == errorx.CodeConflict {
			winner, findErr := repos.Room.FindActiveDirectByKey(key)
			if findErr != nil {
				return nil, false, findErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	for _, userUuid := range []string{a, b} {
		participant := model.RoomParticipant{
			RoomUuid: room.Uuid,
			UserUuid: userUuid,
			Role:     model.RoleMember,
			JoinedAt: sql.NullTime{Time: now, Valid: true},
		}
		if err := repos.Room.CreateParticipant(&participant); err != nil {
			return nil, false, err
		}
	}
	return &room, true, nil
}

// GetOrCreateDirect 获取/创建与目标用户的单聊房间
func (s *roomService) GetOrCreateDirect(userUuid, targetUuid string) (*respond.RoomRespond, error) {
	if userUuid == targetUuid {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能与自己建立单聊")
	}
	if _, err := s.repos.User.FindByUuid(targetUuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	var room *model.Room
	err := s.repos.Transaction(func(tx *mysql.Repositories) error {
		found, _, err := FindOrCreateDirect(tx, userUuid, targetUuid, time.Now())
		if err != nil {
			return err
		}
		room = found
		return nil
	})
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.toRespond(userUuid, room), nil
}

// toRespond 组装房间列表项，附带最近消息与未读数
func (s *roomService) toRespond(userUuid string, room *model.Room) *respond.RoomRespond {
	rsp := &respond.RoomRespond{
		Uuid:      room.Uuid,
		Name:      room.Name,
		Type:      room.Type,
		Avatar:    room.Avatar,
		UpdatedAt: room.UpdatedAt.Format(constants.TIME_FORMAT),
	}

	if last, err := s.repos.Message.FindLastByRoom(room.Uuid); err == nil {
		rsp.LastMessage = &respond.MessageRespond{
			Uuid:       respond.FormatMessageUuid(last.Uuid),
			RoomUuid:   last.RoomUuid,
			SenderUuid: last.SenderUuid,
			Type:       last.Type,
			Ciphertext: last.Ciphertext,
			Nonce:      last.Nonce,
			Tag:        last.Tag,
			CreatedAt:  last.CreatedAt.Format(constants.TIME_FORMAT),
		}
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
	}

	participant, err := s.repos.Room.FindParticipant(room.Uuid, userUuid)
	if err != nil {
		if errorx.GetCode(err) != errorx.CodeNotFound {
			zap.L().Error(err.Error())
		}
		return rsp
	}
	count, err := s.repos.Room.CountUnread(room.Uuid, userUuid, participant.LastReadAt)
	if err != nil {
		zap.L().Error(err.Error())
		return rsp
	}
	rsp.UnreadCount = count
	return rsp
}

// GetRoomList 用户参与的有效房间，按最近活跃倒序
func (s *roomService) GetRoomList(userUuid string) ([]respond.RoomRespond, error) {
	rooms, err := s.repos.Room.FindRoomsByUser(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	list := make([]respond.RoomRespond, 0, len(rooms))
	for i := range rooms {
		list = append(list, *s.toRespond(userUuid, &rooms[i]))
	}
	return list, nil
}

// MarkRead 推进读游标到当前时刻
func (s *roomService) MarkRead(userUuid, roomUuid string) error {
	if _, err := s.repos.Room.FindParticipant(roomUuid, userUuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeForbidden, "不是该房间的成员")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err := s.repos.Room.UpdateLastRead(roomUuid, userUuid, time.Now()); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}
