// Package user 实现用户业务逻辑
package user

import (
	"time"

	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	myredis "wave_chat_server/internal/dao/redis"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/jwt"
	"wave_chat_server/pkg/util/random"
)

// userService 用户业务逻辑实现
type userService struct {
	repos *mysql.Repositories
	cache myredis.AsyncCacheService
}

// NewUserService 构造函数，注入 Repository 聚合
func NewUserService(repos *mysql.Repositories, cache myredis.AsyncCacheService) *userService {
	return &userService{repos: repos, cache: cache}
}

// issueTokens 生成双 Token 并把 refresh token id 写入 Redis（单点互踢）
func (u *userService) issueTokens(userUuid string) (accessToken, refreshToken string, err error) {
	accessToken, err = jwt.GenerateAccessToken(userUuid)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userUuid)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return "", "", errorx.ErrServerBusy
	}
	redisKey := "user_token:" + userUuid
	if err := myredis.SetKeyEx(redisKey, tokenID, time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS)*time.Hour); err != nil {
		// 不阻塞登录流程，仅记录日志
		zap.L().Error("存储 Token ID 到 Redis 失败", zap.Error(err))
	}
	return accessToken, refreshToken, nil
}

// Register 注册新用户
func (u *userService) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	if _, err := u.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "邮箱已被注册")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if _, err := u.repos.User.FindByUsername(req.Username); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	user := model.UserInfo{
		Uuid:        "U" + random.GetNowAndLenRandomString(13),
		Username:    req.Username,
		Email:       req.Email,
		RawPassword: req.Password,
		IsOnline:    true,
	}
	if err := u.repos.User.Create(&user); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return nil, errorx.New(errorx.CodeUserExist, "用户名或邮箱已被占用")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	accessToken, refreshToken, err := u.issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		Email:        user.Email,
		Avatar:       user.Avatar,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login 密码登录
func (u *userService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidAuth, "密码不正确，请重试")
	}

	if err := u.repos.User.SetOnline(user.Uuid, true); err != nil {
		zap.L().Error(err.Error())
	}
	// 在线状态快照写入 Redis，供网关侧快速判活
	if u.cache != nil {
		uuid := user.Uuid
		u.cache.SubmitTask(func() {
			_ = myredis.SetKeyEx("presence:"+uuid, "1", time.Duration(constants.REDIS_TIMEOUT)*time.Minute)
		})
	}

	accessToken, refreshToken, err := u.issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}
	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		Email:        user.Email,
		Avatar:       user.Avatar,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout 登出，清在线标志并刷新 last_seen
func (u *userService) Logout(userUuid string) error {
	if err := u.repos.User.SetOnline(userUuid, false); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err := myredis.DelKeyIfExists("user_token:" + userUuid); err != nil {
		zap.L().Error(err.Error())
	}
	if err := myredis.DelKeyIfExists("presence:" + userUuid); err != nil {
		zap.L().Error(err.Error())
	}
	return nil
}

// canSeeScope 隐私范围判定
// scope: 0=所有人, 1=仅联系人, 2=任何人不可见
func (u *userService) canSeeScope(scope int8, viewerUuid, targetUuid string) bool {
	switch scope {
	case model.PrivacyEveryone:
		return true
	case model.PrivacyContacts:
		contact, err := u.repos.Contact.FindByOwnerAndTarget(targetUuid, viewerUuid)
		if err != nil {
			return false
		}
		return !contact.Blocked
	default:
		return false
	}
}

// GetUserInfo 查看用户资料
// last_seen 与在线标志按目标用户的隐私设置对 viewer 过滤
func (u *userService) GetUserInfo(viewerUuid, targetUuid string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(targetUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	rsp := &respond.UserInfoRespond{
		Uuid:         user.Uuid,
		Username:     user.Username,
		Email:        user.Email,
		Avatar:       user.Avatar,
		Bio:          user.Bio,
		Phone:        user.Phone,
		ShowLastSeen: user.ShowLastSeen,
		ShowStatusTo: user.ShowStatusTo,
	}
	self := viewerUuid == targetUuid
	if self || u.canSeeScope(user.ShowStatusTo, viewerUuid, targetUuid) {
		rsp.IsOnline = user.IsOnline
	}
	if (self || u.canSeeScope(user.ShowLastSeen, viewerUuid, targetUuid)) && user.LastSeenAt.Valid {
		rsp.LastSeenAt = user.LastSeenAt.Time.Format(constants.TIME_FORMAT)
	}
	return rsp, nil
}

// UpdateUserInfo 修改本人资料与隐私设置
func (u *userService) UpdateUserInfo(userUuid string, req request.UpdateUserInfoRequest) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(userUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := u.repos.User.FindByUsername(*req.Username); err == nil {
			return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
		} else if errorx.GetCode(err) != errorx.CodeNotFound {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		user.Username = *req.Username
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ShowLastSeen != nil {
		user.ShowLastSeen = *req.ShowLastSeen
	}
	if req.ShowStatusTo != nil {
		user.ShowStatusTo = *req.ShowStatusTo
	}

	if err := u.repos.User.Update(user); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return u.GetUserInfo(userUuid, userUuid)
}
