// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料、在线状态与隐私设置
package model

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 隐私可见范围
// 用于 last_seen 和动态可见性设置
const (
	PrivacyEveryone int8 = 0 // 所有人可见
	PrivacyContacts int8 = 1 // 仅联系人可见
	PrivacyNobody   int8 = 2 // 任何人不可见
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
// 本核心只维护资料与在线状态，账号生命周期（注销等）由认证协作方负责
type UserInfo struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Uuid 用户唯一标识
	// 格式：U + 13位时间戳随机字符串，如 "U240104Ab3dE12345"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	// Username 用户名（handle），全局唯一
	Username string `gorm:"column:username;uniqueIndex;type:varchar(30);not null;comment:用户名"`

	// Email 邮箱地址，全局唯一，用于登录
	Email string `gorm:"column:email;uniqueIndex;type:varchar(60);not null;comment:邮箱"`

	// Avatar 用户头像 URL（由媒体存储协作方解析，本核心只存链接）
	Avatar string `gorm:"column:avatar;type:varchar(255);comment:头像"`

	// Bio 个性签名
	Bio string `gorm:"column:bio;type:varchar(200);comment:个性签名"`

	// Phone 手机号码（可选）
	Phone string `gorm:"column:phone;type:varchar(20);comment:电话"`

	// Password 密码（已哈希）
	// 存储 bcrypt 哈希后的密码，不存储明文
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// IsOnline 在线标志，由登录/登出操作翻转
	IsOnline bool `gorm:"column:is_online;not null;default:false;comment:是否在线"`

	// LastSeenAt 最近离线时间，登出时更新
	LastSeenAt sql.NullTime `gorm:"column:last_seen_at;type:datetime;comment:最近在线时间"`

	// ShowLastSeen last_seen 可见范围
	// 0=所有人, 1=仅联系人, 2=任何人不可见
	ShowLastSeen int8 `gorm:"column:show_last_seen;not null;default:0;comment:最近在线可见范围"`

	// ShowStatusTo 在线状态可见范围，取值同上
	ShowStatusTo int8 `gorm:"column:show_status_to;not null;default:0;comment:在线状态可见范围"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收前端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 Password 字段
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验密码是否正确
/// plaintext: 用户输入的明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
