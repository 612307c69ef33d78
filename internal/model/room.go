// Package model 定义数据库实体模型
// 本文件定义房间与成员关系模型
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// 房间类型
const (
	RoomTypeDirect int8 = 0 // 单聊，严格两名成员
	RoomTypeGroup  int8 = 1 // 群聊
)

// 成员角色
const (
	RoleMember int8 = 1 // 普通成员
	RoleAdmin  int8 = 2 // 管理员
	RoleOwner  int8 = 3 // 群主
)

// Room 房间模型
// 对应数据库 room 表
// UpdatedAt 在每条新消息写入时被推进，作为房间列表的排序依据
type Room struct {
	gorm.Model

	// Uuid 房间唯一标识
	// 格式：R + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:房间唯一id"`

	// Name 房间名称，单聊房间为空
	Name string `gorm:"column:name;type:varchar(100);comment:房间名称"`

	// Type 房间类型，0=单聊, 1=群聊
	Type int8 `gorm:"column:type;not null;default:0;comment:房间类型，0.单聊，1.群聊"`

	// CreatorUuid 创建者 uuid
	// 创建者被认证协作方删除时置 NULL，房间本身保留
	CreatorUuid sql.NullString `gorm:"column:creator_uuid;type:char(20);comment:创建者uuid"`

	// DirectKey 单聊成员对的规范化键："小uuid_大uuid"
	// 唯一索引从结构上保证同一对成员至多一个单聊房间
	// 群聊房间为 NULL（MySQL 唯一索引允许多个 NULL）
	DirectKey sql.NullString `gorm:"column:direct_key;uniqueIndex;type:char(41);comment:单聊成员对规范键"`

	// Avatar 房间头像 URL
	Avatar string `gorm:"column:avatar;type:varchar(255);comment:头像"`

	// Description 房间描述
	Description string `gorm:"column:description;type:varchar(255);comment:描述"`

	// IsActive 激活标志，解散后置否
	IsActive bool `gorm:"column:is_active;not null;default:true;comment:是否有效"`
}

func (Room) TableName() string {
	return "room"
}

// RoomParticipant 房间成员关系，(room, user) 唯一
// LastReadAt 是未读数计算的唯一依据（读游标）
type RoomParticipant struct {
	gorm.Model
	RoomUuid   string       `gorm:"column:room_uuid;index:idx_participant_pair,unique;type:char(20);not null;comment:房间uuid"`
	UserUuid   string       `gorm:"column:user_uuid;index:idx_participant_pair,unique;type:char(20);not null;comment:用户uuid"`
	Role       int8         `gorm:"column:role;not null;default:1;comment:角色，1普通成员 2管理员 3群主"`
	JoinedAt   sql.NullTime `gorm:"column:joined_at;type:datetime;comment:加入时间"`
	LastReadAt sql.NullTime `gorm:"column:last_read_at;type:datetime;comment:读游标"`
	IsMuted    bool         `gorm:"column:is_muted;not null;default:false;comment:是否免打扰"`
}

func (RoomParticipant) TableName() string {
	return "room_participant"
}
