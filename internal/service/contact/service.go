// Package contact 实现联系人业务逻辑
package contact

import (
	"go.uber.org/zap"

	"wave_chat_server/internal/dao/mysql"
	"wave_chat_server/internal/dto/request"
	"wave_chat_server/internal/dto/respond"
	"wave_chat_server/internal/model"
	"wave_chat_server/pkg/errorx"
)

// contactService 联系人业务逻辑实现
type contactService struct {
	repos *mysql.Repositories
}

// NewContactService 构造函数
func NewContactService(repos *mysql.Repositories) *contactService {
	return &contactService{repos: repos}
}

// AddContact 添加 (owner → target) 联系边
// 重复添加返回冲突错误；不要求 target 反向添加
func (s *contactService) AddContact(ownerUuid string, req request.AddContactRequest) error {
	if ownerUuid == req.TargetUuid {
		return errorx.New(errorx.CodeInvalidParam, "不能添加自己为联系人")
	}
	if _, err := s.repos.User.FindByUuid(req.TargetUuid); err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if _, err := s.repos.Contact.FindByOwnerAndTarget(ownerUuid, req.TargetUuid); err == nil {
		return errorx.New(errorx.CodeConflict, "联系人已存在")
	} else if errorx.GetCode(err) != errorx.CodeNotFound {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	contact := model.Contact{
		OwnerUuid:  ownerUuid,
		TargetUuid: req.TargetUuid,
		Nickname:   req.Nickname,
	}
	if err := s.repos.Contact.Create(&contact); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return errorx.New(errorx.CodeConflict, "联系人已存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// SetNickname 修改联系人备注名
func (s *contactService) SetNickname(ownerUuid string, req request.UpdateContactRequest) error {
	contact, err := s.repos.Contact.FindByOwnerAndTarget(ownerUuid, req.TargetUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "联系人不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	contact.Nickname = req.Nickname
	if err := s.repos.Contact.Update(contact); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// SetBlocked 拉黑/取消拉黑
// 拉黑立即作用于后续所有联系人相关可见性判断
func (s *contactService) SetBlocked(ownerUuid, targetUuid string, blocked bool) error {
	contact, err := s.repos.Contact.FindByOwnerAndTarget(ownerUuid, targetUuid)
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeNotFound {
			return errorx.New(errorx.CodeNotFound, "联系人不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	contact.Blocked = blocked
	if err := s.repos.Contact.Update(contact); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// GetContactList 联系人列表，附带对方资料快照
func (s *contactService) GetContactList(ownerUuid string) ([]respond.ContactRespond, error) {
	contacts, err := s.repos.Contact.FindByOwner(ownerUuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if len(contacts) == 0 {
		return []respond.ContactRespond{}, nil
	}

	uuids := make([]string, 0, len(contacts))
	for _, c := range contacts {
		uuids = append(uuids, c.TargetUuid)
	}
	users, err := s.repos.User.FindByUuids(uuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	userByUuid := make(map[string]model.UserInfo, len(users))
	for _, u := range users {
		userByUuid[u.Uuid] = u
	}

	list := make([]respond.ContactRespond, 0, len(contacts))
	for _, c := range contacts {
		item := respond.ContactRespond{
			TargetUuid: c.TargetUuid,
			Nickname:   c.Nickname,
			Blocked:    c.Blocked,
		}
		if u, ok := userByUuid[c.TargetUuid]; ok {
			item.Username = u.Username
			item.Avatar = u.Avatar
			item.IsOnline = u.IsOnline
		}
		list = append(list, item)
	}
	return list, nil
}
