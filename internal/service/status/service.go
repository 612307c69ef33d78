// Package status 实现动态（限时广播）业务逻辑
package status

import (
	"time"

	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/constants"
	"wave_chat_server/pkg/errorx"
	"wave_chat_server/pkg/util/random"
)

// statusService 动态业务逻辑实现
type statusService struct {
	repos *mysql.Repositories
}

// NewStatusService 构造函数
func NewStatusService(repos *mysql.Repositories) *statusService {
	return &statusService{repos: repos}
}

func toRespond(s *model.StatusUpdate) *respond.StatusRespond {
	return &respond.StatusRespond{
		Uuid:            s.Uuid,
		OwnerUuid:       s.OwnerUuid,
		Type:            s.Type,
		Text:            s.Text,
		MediaUrl:        s.MediaUrl,
		MediaType:       s.MediaType,
		BackgroundColor: s.BackgroundColor,
		Visibility:      s.Visibility,
		ViewCount:       s.ViewCount,
		CreatedAt:       s.CreatedAt.Format(constants.TIME_FORMAT),
		ExpiresAt:       s.ExpiresAt.Format(constants.TIME_FORMAT),
	}
}

// CanView 可见性判定
// 发布者恒可见；过期不可见；其余按可见范围：
// 所有人 → 可见；联系人 → owner 有指向 viewer 的未拉黑边；自定义 → 白名单命中
func (s *statusService) CanView(viewerUuid string, status *model.StatusUpdate, now time.Time) bool {
	if viewerUuid == status.OwnerUuid {
		return true
	}
	if status.IsExpired(now) {
		return false
	}
	switch status.Visibility {
	case model.VisibilityEveryone:
		return true
	case model.VisibilityContacts:
		contact, err := s.repos.Contact.FindByOwnerAndTarget(status.OwnerUuid, viewerUuid)
		if err != nil {
			return false
		}
		return !contact.Blocked
	case model.VisibilityCustom:
		_, err := s.repos.Status.FindViewer(status.Uuid, viewerUuid)
		return err == nil
	}
	return false
}

// CreateStatus 发布动态
// 文字动态必须有文字，媒体动态必须有媒体链接；自定义可见时落白名单
func (s *statusService) CreateStatus(ownerUuid string, req request.CreateStatusRequest) (*respond.StatusRespond, error) {
	if req.Type == model.StatusTypeText && req.Text == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "文字动态内容不能为空")
	}
	if req.Type != model.StatusTypeText && req.MediaUrl == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "媒体动态必须携带媒体链接")
	}

	status := model.StatusUpdate{
		Uuid:            "S" + random.GetNowAndLenRandomString(13),
		OwnerUuid:       ownerUuid,
		Type:            req.Type,
		Text:            req.Text,
		MediaUrl:        req.MediaUrl,
		MediaType:       req.MediaType,
		BackgroundColor: req.BackgroundColor,
		Visibility:      req.Visibility,
		ExpiresAt:       time.Now().Add(constants.STATUS_DEFAULT_EXPIRY),
	}
	if status.BackgroundColor == "" {
		status.BackgroundColor = "#3b82f6"
	}
	if err := s.repos.Status.Create(&status); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if req.Visibility == model.VisibilityCustom && len(req.ViewerUuids) > 0 {
		seen := make(map[string]struct{}, len(req.ViewerUuids))
		viewers := make([]model.StatusViewer, 0, len(req.ViewerUuids))
		for _, viewerUuid := range req.ViewerUuids {
			if viewerUuid == ownerUuid {
				continue
			}
			if _, dup := seen[viewerUuid]; dup {
				continue
			}
			seen[viewerUuid] = struct{}{}
			viewers = append(viewers, model.StatusViewer{StatusUuid: status.Uuid, UserUuid: viewerUuid})
		}
		if len(viewers) > 0 {
			if err := s.repos.Status.CreateViewers(viewers); err != nil {
				zap.L().Error(err.Error())
				return nil, errorx.ErrServerBusy
			}
		}
	}
	return toRespond(&status), nil
}

// decorate 补充发布者名称与本人是否已看过
func (s *statusService) decorate(viewerUuid string, statuses []model.StatusUpdate) []respond.StatusRespond {
	ownerUuids := make([]string, 0, len(statuses))
	for i := range statuses {
		ownerUuids = append(ownerUuids, statuses[i].OwnerUuid)
	}
	nameByUuid := make(map[string]string)
	if len(ownerUuids) > 0 {
		if owners, err := s.repos.User.FindByUuids(ownerUuids); err == nil {
			for _, o := range owners {
				nameByUuid[o.Uuid] = o.Username
			}
		} else {
			zap.L().Error(err.Error())
		}
	}

	list := make([]respond.StatusRespond, 0, len(statuses))
	for i := range statuses {
		item := *toRespond(&statuses[i])
		item.OwnerName = nameByUuid[statuses[i].OwnerUuid]
		if views, err := s.repos.Status.FindViewsByStatus(statuses[i].Uuid); err == nil {
			for _, v := range views {
				if v.ViewerUuid == viewerUuid {
					item.Viewed = true
					break
				}
			}
		}
		list = append(list, item)
	}
	return list
}

// GetFeed 可见动态流：他人发布、未过期、按可见范围过滤
func (s *statusService) GetFeed(userUuid string) ([]respond.StatusRespond, error) {
	contactOwners, err := s.repos.Contact.FindOwnersHavingContact(userUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	statuses, err := s.repos.Status.FindFeed(userUuid, contactOwners, time.Now())
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.decorate(userUuid, statuses), nil
}

// GetMyStatuses 本人未过期动态
func (s *statusService) GetMyStatuses(ownerUuid string) ([]respond.StatusRespond, error) {
	statuses, err := s.repos.Status.FindActiveByOwner(ownerUuid, time.Now())
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return s.decorate(ownerUuid, statuses), nil
}

// findStatus 查找动态，统一错误翻译
func (s *statusService) findStatus(statusUuid string) (*model.StatusUpdate, error) {
	status, err := s.repos.Status.FindByUuid(statusUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil, errorx.New(errorx.CodeNotFound, "动态不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return status, nil
}

// RecordView 记录浏览
// 本人浏览与重复浏览均为无副作用成功；计数只在首次插入浏览记录后递增
func (s *statusService) RecordView(viewerUuid, statusUuid string) error {
	status, err := s.findStatus(statusUuid)
	if err != nil {
		return err
	}
	if viewerUuid == status.OwnerUuid {
		return nil
	}
	if !s.CanView(viewerUuid, status, time.Now()) {
		return errorx.New(errorx.CodeForbidden, "无权查看该动态")
	}

	inserted, err := s.repos.Status.CreateViewIfAbsent(&model.StatusView{
		StatusUuid: statusUuid,
		ViewerUuid: viewerUuid,
	})
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if inserted {
		if err := s.repos.Status.IncrementViewCount(statusUuid); err != nil {
			zap.L().Error(err.Error())
			return errorx.ErrServerBusy
		}
	}
	return nil
}

// GetViewers 观看者列表，仅发布者可查
func (s *statusService) GetViewers(ownerUuid, statusUuid string) ([]respond.StatusViewerRespond, error) {
	status, err := s.findStatus(statusUuid)
	if err != nil {
		return nil, err
	}
	if status.OwnerUuid != ownerUuid {
		return nil, errorx.New(errorx.CodeForbidden, "只有发布者可以查看观看者列表")
	}

	views, err := s.repos.Status.FindViewsByStatus(statusUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	uuids := make([]string, 0, len(views))
	for _, v := range views {
		uuids = append(uuids, v.ViewerUuid)
	}
	userByUuid := make(map[string]model.UserInfo)
	if len(uuids) > 0 {
		if users, err := s.repos.User.FindByUuids(uuids); err == nil {
			for _, u := range users {
				userByUuid[u.Uuid] = u
			}
		} else {
			zap.L().Error(err.Error())
		}
	}

	list := make([]respond.StatusViewerRespond, 0, len(views))
	for _, v := range views {
		item := respond.StatusViewerRespond{
			UserUuid: v.ViewerUuid,
			ViewedAt: v.CreatedAt.Format(constants.TIME_FORMAT),
		}
		if u, ok := userByUuid[v.ViewerUuid]; ok {
			item.Username = u.Username
			item.Avatar = u.Avatar
		}
		list = append(list, item)
	}
	return list, nil
}

// React 表态，同一用户重复表态覆盖原值
func (s *statusService) React(userUuid string, req request.ReactStatusRequest) error {
	if !model.IsValidReaction(req.Reaction) {
		return errorx.New(errorx.CodeInvalidParam, "表态取值不合法")
	}
	status, err := s.findStatus(req.StatusUuid)
	if err != nil {
		return err
	}
	if !s.CanView(userUuid, status, time.Now()) {
		return errorx.New(errorx.CodeForbidden, "无权查看该动态")
	}

	if err := s.repos.Status.UpsertReaction(&model.StatusReaction{
		StatusUuid: req.StatusUuid,
		UserUuid:   userUuid,
		Reaction:   req.Reaction,
	}); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// Unreact 撤销表态，没有表态时为无副作用成功
func (s *statusService) Unreact(userUuid, statusUuid string) error {
	if _, err := s.findStatus(statusUuid); err != nil {
		return err
	}
	if err := s.repos.Status.DeleteReaction(statusUuid, userUuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return nil
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// DeleteStatus 删除本人动态
func (s *statusService) DeleteStatus(ownerUuid, statusUuid string) error {
	status, err := s.findStatus(statusUuid)
	if err != nil {
		return err
	}
	if status.OwnerUuid != ownerUuid {
		return errorx.New(errorx.CodeForbidden, "只能删除自己的动态")
	}
	if err := s.repos.Status.Delete(statusUuid); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}
