// Package invitation 实现邀请业务逻辑
// 邀请令牌是 bearer 秘密：持有令牌即可与 owner 建立单聊，不验证持有者身份
package invitation

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	myredis "wave_chat_server/internal/dao/redis"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/internal/service/room"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/random"
)

// invitationService 邀请业务逻辑实现
type invitationService struct {
	repos *mysql.Repositories
	cache myredis.AsyncCacheService
}

// NewInvitationService 构造函数
func NewInvitationService(repos *mysql.Repositories, cache myredis.AsyncCacheService) *invitationService {
	return &invitationService{repos: repos, cache: cache}
}

func toInvitationRespond(inv *model.Invitation) *respond.InvitationRespond {
	rsp := &respond.InvitationRespond{
		Uuid:      inv.Uuid,
		Token:     inv.Token,
		MaxUses:   inv.MaxUses,
		UsesCount: inv.UsesCount,
		IsActive:  inv.IsActive,
		CreatedAt: inv.CreatedAt.Format(constants.TIME_FORMAT),
	}
	if inv.ExpiresAt.Valid {
		rsp.ExpiresAt = inv.ExpiresAt.Time.Format(constants.TIME_FORMAT)
	}
	return rsp
}

// GetOrCreateDefault 获取最新邀请，没有则按默认参数创建
// 默认邀请面向二维码场景：1000 次使用上限，永不过期
func (s *invitationService) GetOrCreateDefault(ownerUuid string) (*respond.InvitationRespond, error) {
	inv, err := s.repos.Invitation.FindNewestByOwner(ownerUuid)
	if err == nil {
		return toInvitationRespond(inv), nil
	}
	if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	created := model.Invitation{
		Uuid:      "I" + random.GetNowAndLenRandomString(13),
		OwnerUuid: ownerUuid,
		Token:     random.GetRandomString(constants.INVITE_TOKEN_LENGTH),
		MaxUses:   constants.INVITE_DEFAULT_USES,
		IsActive:  true,
	}
	if err := s.repos.Invitation.Create(&created); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return toInvitationRespond(&created), nil
}

// Regenerate 重新生成令牌
// 旧令牌立即作废，计数清零并恢复激活；没有邀请时等同于创建
func (s *invitationService) Regenerate(ownerUuid string) (*respond.InvitationRespond, error) {
	inv, err := s.repos.Invitation.FindNewestByOwner(ownerUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return s.GetOrCreateDefault(ownerUuid)
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	inv.Token = random.GetRandomString(constants.INVITE_TOKEN_LENGTH)
	inv.UsesCount = 0
	inv.IsActive = true
	if err := s.repos.Invitation.Update(inv); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return toInvitationRespond(inv), nil
}

// recordScan 异步记录二维码扫描事件
// 纯分析用途，经 worker pool 提交，任何失败都不影响查询主流程
func (s *invitationService) recordScan(invitationUuid, ipAddress, userAgent string) {
	scan := model.QRCodeSession{
		InvitationUuid: invitationUuid,
		SessionId:      uuid.NewString(),
		IpAddress:      ipAddress,
		UserAgent:      userAgent,
	}
	write := func() {
		if err := s.repos.Invitation.CreateQRScan(&scan); err != nil {
			zap.L().Warn("记录扫描事件失败", zap.Error(err))
		}
	}
	if s.cache != nil {
		s.cache.SubmitTask(write)
		return
	}
	write()
}

// LookupPublicInfo 查询令牌公开信息，无需登录
// 无效/未知令牌只返回 {valid:false}，不泄露 owner 信息；扫描事件无论有效与否都记录
func (s *invitationService) LookupPublicInfo(token, ipAddress, userAgent string) (*respond.InvitationInfoRespond, error) {
	inv, err := s.repos.Invitation.FindByToken(token)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			s.recordScan("", ipAddress, userAgent)
			return &respond.InvitationInfoRespond{Valid: false}, nil
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	s.recordScan(inv.Uuid, ipAddress, userAgent)

	if !inv.IsValid(time.Now()) {
		return &respond.InvitationInfoRespond{Valid: false}, nil
	}

	owner, err := s.repos.User.FindByUuid(inv.OwnerUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := &respond.InvitationInfoRespond{
		Valid: true,
		Owner: &respond.UserCardRespond{
			Uuid:     owner.Uuid,
			Username: owner.Username,
			Avatar:   owner.Avatar,
			Bio:      owner.Bio,
		},
		CreatedAt:     inv.CreatedAt.Format(constants.TIME_FORMAT),
		RemainingUses: inv.RemainingUses(),
	}
	if inv.ExpiresAt.Valid {
		rsp.ExpiresAt = inv.ExpiresAt.Time.Format(constants.TIME_FORMAT)
	}
	return rsp, nil
}

// Accept 接受邀请
// 同一用户重复接受同一邀请幂等返回原房间，不重复扣次数
// 房间建立、成员写入、使用记录与计数递增在一个事务内完成
func (s *invitationService) Accept(userUuid, token, ipAddress, userAgent string) (*respond.AcceptInvitationRespond, error) {
	inv, err := s.repos.Invitation.FindByToken(token)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeInvalidParam, "邀请令牌无效")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if inv.OwnerUuid == userUuid {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能接受自己的邀请")
	}

	// 幂等回放：已有使用记录直接返回原房间
	if usage, err := s.repos.Invitation.FindUsage(inv.Uuid, userUuid); err == nil {
		return &respond.AcceptInvitationRespond{
			RoomUuid:         usage.RoomUuid,
			OwnerUuid:        inv.OwnerUuid,
			AlreadyConnected: true,
		}, nil
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if !inv.IsValid(time.Now()) {
		return nil, errorx.New(errorx.CodeInvalidState, "邀请已过期或已用完")
	}

	var rsp *respond.AcceptInvitationRespond
	err = s.repos.Transaction(func(tx *mysql.Repositories) error {
		now := time.Now()
		directRoom, _, err := room.FindOrCreateDirect(tx, inv.OwnerUuid, userUuid, now)
		if err != nil {
			return err
		}
		usage := model.InvitationUsage{
			InvitationUuid: inv.Uuid,
			UserUuid:       userUuid,
			RoomUuid:       directRoom.Uuid,
			IpAddress:      ipAddress,
			UserAgent:      userAgent,
		}
		if err := tx.Invitation.CreateUsage(&usage); err != nil {
			return err
		}
		if err := tx.Invitation.IncrementUses(inv.Uuid); err != nil {
			return err
		}
		rsp = &respond.AcceptInvitationRespond{
			RoomUuid:  directRoom.Uuid,
			OwnerUuid: inv.OwnerUuid,
		}
		return nil
	})
	if err != nil {
		// 并发重复接受撞 (invitation, user) 唯一索引：按幂等回放处理
		if errorx.GetCode(err) == errorx.CodeConflict {
			if usage, findErr := s.repos.Invitation.FindUsage(inv.Uuid, userUuid); findErr == nil {
				return &respond.AcceptInvitationRespond{
					RoomUuid:         usage.RoomUuid,
					OwnerUuid:        inv.OwnerUuid,
					AlreadyConnected: true,
				}, nil
			}
		}
		// 预检通过后被并发接受抢走最后一次余量，计数守卫回绝
		if errorx.GetCode(err) == errorx.CodeInvalidState {
			return nil, errorx.New(errorx.CodeInvalidState, "邀请已过期或已用完")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return rsp, nil
}
