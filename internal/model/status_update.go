// Package model 定义数据库实体模型
// 本文件定义动态（限时广播）相关模型
package model

import (
	"time"

	"gorm.io/gorm"
)

// 动态类型
const (
	StatusTypeText  int8 = 0 // 文字动态
	StatusTypeImage int8 = 1 // 图片动态
	StatusTypeVideo int8 = 2 // 视频动态
)

// 动态可见范围
const (
	VisibilityEveryone int8 = 0 // 所有人
	VisibilityContacts int8 = 1 // 仅联系人（未拉黑）
	VisibilityCustom   int8 = 2 // 自定义白名单
)

// 动态表态，固定枚举集
const (
	ReactionHeart   int8 = 0
	ReactionLaugh   int8 = 1
	ReactionWow     int8 = 2
	ReactionSad     int8 = 3
	ReactionAngry   int8 = 4
	ReactionLike    int8 = 5
	ReactionDislike int8 = 6
)

// IsValidReaction 判断表态取值是否属于固定枚举集
func IsValidReaction(r int8) bool {
	return r >= ReactionHeart && r <= ReactionDislike
}

// StatusUpdate 动态模型
// 限时广播对象，默认创建 24 小时后过期
// 过期动态从所有流中排除，但不主动删除（清理由外部 sweeper 负责）
type StatusUpdate struct {
	gorm.Model

	// Uuid 动态唯一标识
	// 格式：S + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:动态唯一id"`

	// OwnerUuid 发布者
	OwnerUuid string `gorm:"column:owner_uuid;index;type:char(20);not null;comment:发布者uuid"`

	// Type 动态类型，0=文字, 1=图片, 2=视频
	Type int8 `gorm:"column:type;not null;default:0;comment:动态类型"`

	// Text 文字内容，文字动态必填
	Text string `gorm:"column:text;type:TEXT;comment:文字内容"`

	// MediaUrl 媒体资源 URL，图片/视频动态必填
	MediaUrl string `gorm:"column:media_url;type:varchar(255);comment:媒体url"`

	// MediaType 媒体 MIME 类型
	MediaType string `gorm:"column:media_type;type:varchar(50);comment:媒体类型"`

	// BackgroundColor 文字动态背景色，十六进制
	BackgroundColor string `gorm:"column:background_color;type:char(7);default:#3b82f6;comment:背景色"`

	// Visibility 可见范围，0=所有人, 1=联系人, 2=自定义
	Visibility int8 `gorm:"column:visibility;not null;default:0;comment:可见范围"`

	// ExpiresAt 绝对过期时间
	ExpiresAt time.Time `gorm:"column:expires_at;index;type:datetime;not null;comment:过期时间"`

	// ViewCount 浏览计数
	// 仅在 (status, viewer) 首次插入成功时加一，重复浏览不重复计数
	ViewCount uint `gorm:"column:view_count;not null;default:0;comment:浏览次数"`
}

func (StatusUpdate) TableName() string {
	return "status_update"
}

// IsExpired 动态是否已过期
func (s *StatusUpdate) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// StatusViewer 自定义可见白名单，(status, user) 唯一
// 仅在 Visibility 为自定义时参与可见性判断
type StatusViewer struct {
	gorm.Model
	StatusUuid string `gorm:"column:status_uuid;index:idx_viewer_pair,unique;type:char(20);not null;comment:动态uuid"`
	UserUuid   string `gorm:"column:user_uuid;index:idx_viewer_pair,unique;type:char(20);not null;comment:用户uuid"`
}

func (StatusViewer) TableName() string {
	return "status_viewer"
}

// StatusView 浏览记录，(status, viewer) 唯一
type StatusView struct {
	gorm.Model
	StatusUuid string `gorm:"column:status_uuid;index:idx_view_pair,unique;type:char(20);not null;comment:动态uuid"`
	ViewerUuid string `gorm:"column:viewer_uuid;index:idx_view_pair,unique;type:char(20);not null;comment:浏览者uuid"`
}

func (StatusView) TableName() string {
	return "status_view"
}

// StatusReaction 动态表态，(status, user) 唯一
// 同一用户再次表态时覆盖原值而非新增
type StatusReaction struct {
	gorm.Model
	StatusUuid string `gorm:"column:status_uuid;index:idx_reaction_pair,unique;type:char(20);not null;comment:动态uuid"`
	UserUuid   string `gorm:"column:user_uuid;index:idx_reaction_pair,unique;type:char(20);not null;comment:用户uuid"`
	Reaction   int8   `gorm:"column:reaction;not null;comment:表态值"`
}

func (StatusReaction) TableName() string {
	return "status_reaction"
}
