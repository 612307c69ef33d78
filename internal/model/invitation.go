// Package model 定义数据库实体模型
// 本文件定义邀请（capability token）相关模型
package model

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Invitation 邀请模型
// 邀请是归属于 owner 的能力对象：持有令牌即可与 owner 建立单聊房间
// 令牌是 bearer 秘密，不是身份凭证
type Invitation struct {
	gorm.Model

	// Uuid 邀请唯一标识
	// 格式：I + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:邀请唯一id"`

	// OwnerUuid 邀请所有者
	OwnerUuid string `gorm:"column:owner_uuid;index;type:char(20);not null;comment:所有者uuid"`

	// Token 安全随机令牌，32 位大小写字母加数字
	Token string `gorm:"column:token;uniqueIndex;type:char(32);not null;comment:邀请令牌"`

	// MaxUses 最大使用次数
	MaxUses int `gorm:"column:max_uses;not null;default:1;comment:最大使用次数"`

	// UsesCount 已使用次数，单调递增且不超过 MaxUses
	UsesCount int `gorm:"column:uses_count;not null;default:0;comment:已使用次数"`

	// ExpiresAt 绝对过期时间，NULL 表示永不过期
	ExpiresAt sql.NullTime `gorm:"column:expires_at;type:datetime;comment:过期时间"`

	// IsActive 激活标志，用满后自动置否，重新生成令牌时恢复
	IsActive bool `gorm:"column:is_active;not null;default:true;comment:是否有效"`
}

func (Invitation) TableName() string {
	return "invitation"
}

// IsValid 判断邀请当前是否可被接受
// 有效 ⟺ 激活 ∧ 未用满 ∧ (无过期时间 ∨ 未过期)
func (i *Invitation) IsValid(now time.Time) bool {
	if !i.IsActive {
		return false
	}
	if i.UsesCount >= i.MaxUses {
		return false
	}
	if i.ExpiresAt.Valid && now.After(i.ExpiresAt.Time) {
		return false
	}
	return true
}

// RemainingUses 剩余可使用次数，不小于 0
func (i *Invitation) RemainingUses() int {
	if remaining := i.MaxUses - i.UsesCount; remaining > 0 {
		return remaining
	}
	return 0
}

// InvitationUsage 邀请使用记录，(invitation, user) 唯一
// 同时作为幂等记录：同一用户重复接受同一邀请时返回已建立的房间
type InvitationUsage struct {
	gorm.Model
	InvitationUuid string `gorm:"column:invitation_uuid;index:idx_usage_pair,unique;type:char(20);not null;comment:邀请uuid"`
	UserUuid       string `gorm:"column:user_uuid;index:idx_usage_pair,unique;type:char(20);not null;comment:使用者uuid"`
	RoomUuid       string `gorm:"column:room_uuid;type:char(20);comment:建立/复用的房间uuid"`
	IpAddress      string `gorm:"column:ip_address;type:varchar(45);comment:来源IP"`
	UserAgent      string `gorm:"column:user_agent;type:varchar(255);comment:来源UA"`
}

func (InvitationUsage) TableName() string {
	return "invitation_usage"
}

// QRCodeSession 二维码扫描记录
// 仅用于分析统计，写入失败绝不影响查询主流程
type QRCodeSession struct {
	gorm.Model
	InvitationUuid string `gorm:"column:invitation_uuid;index;type:char(20);comment:邀请uuid，令牌无效时为空"`
	SessionId      string `gorm:"column:session_id;uniqueIndex;type:char(36);not null;comment:扫描会话id"`
	IpAddress      string `gorm:"column:ip_address;type:varchar(45);comment:来源IP"`
	UserAgent      string `gorm:"column:user_agent;type:varchar(255);comment:来源UA"`
}

func (QRCodeSession) TableName() string {
	return "qr_code_session"
}
