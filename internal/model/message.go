// Package model 定义数据库实体模型
// 本文件定义消息模型与每接收者消息状态
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// 消息类型
const (
	MessageTypeText     int8 = 0 // 文本
	MessageTypeImage    int8 = 1 // 图片
	MessageTypeFile     int8 = 2 // 文件
	MessageTypeAudio    int8 = 3 // 语音
	MessageTypeVideo    int8 = 4 // 视频
	MessageTypeLocation int8 = 5 // 位置
	MessageTypeSystem   int8 = 6 // 系统消息
)

// 每接收者消息状态，取值即单调序
const (
	MessageStatusSent      int8 = 0 // 已发送
	MessageStatusDelivered int8 = 1 // 已送达
	MessageStatusRead      int8 = 2 // 已读
)

// Message 消息模型
// 对应数据库 message 表，按房间构成追加式消息日志
// 消息内容为端侧加密后的密文，本核心不解释，只负责存取
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64 类型 ID，按时间有序
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// RoomUuid 所属房间
	RoomUuid string `gorm:"column:room_uuid;index:idx_room_created;type:char(20);not null;comment:房间uuid"`

	// SenderUuid 发送者 uuid
	SenderUuid string `gorm:"column:sender_uuid;index;type:char(20);not null;comment:发送者uuid"`

	// Type 消息类型
	// 0=文本, 1=图片, 2=文件, 3=语音, 4=视频, 5=位置, 6=系统
	Type int8 `gorm:"column:type;not null;comment:消息类型"`

	// Ciphertext 加密后的消息内容，服务端不持有密钥
	Ciphertext string `gorm:"column:ciphertext;type:TEXT;not null;comment:密文"`

	// Nonce 加密随机数
	Nonce string `gorm:"column:nonce;type:char(64);not null;comment:nonce"`

	// Tag 完整性标签
	Tag string `gorm:"column:tag;type:char(64);comment:完整性标签"`

	// FileUrl 附件资源 URL
	// 多媒体文件由对象存储协作方保存，这里只存访问链接
	FileUrl string `gorm:"column:file_url;type:varchar(255);comment:附件url"`

	// FileName 文件名
	FileName string `gorm:"column:file_name;type:varchar(255);comment:文件名"`

	// FileSize 文件大小（字节）
	FileSize int64 `gorm:"column:file_size;comment:文件大小"`

	// FileType 文件 MIME 类型，如 "image/jpeg"
	FileType string `gorm:"column:file_type;type:varchar(100);comment:文件类型"`

	// ReplyToUuid 被回复消息，必须与本消息同房间，否则发送时静默丢弃该链接
	ReplyToUuid sql.NullInt64 `gorm:"column:reply_to_uuid;type:bigint;comment:回复的消息uuid"`

	// ForwardedFromUuid 转发来源消息
	ForwardedFromUuid sql.NullInt64 `gorm:"column:forwarded_from_uuid;type:bigint;comment:转发来源消息uuid"`

	// EditedAt 编辑时间，NULL 表示未编辑过
	EditedAt sql.NullTime `gorm:"column:edited_at;type:datetime;comment:编辑时间"`

	// DeletedMark 软删除时间
	// 已删除消息不出现在房间消息流中，但不做物理删除，回复链保持有效
	// 与 gorm.Model 的 DeletedAt 区分：后者用于整行下线，这里是业务层状态
	DeletedMark sql.NullTime `gorm:"column:deleted_mark;type:datetime;comment:软删除时间"`
}

func (Message) TableName() string {
	return "message"
}

// IsDeleted 消息是否已被软删除
func (m *Message) IsDeleted() bool {
	return m.DeletedMark.Valid
}

// MessageStatus 每接收者消息状态，(message, user) 唯一
// 状态只允许单调前进（sent → delivered → read），回退写入被忽略
type MessageStatus struct {
	gorm.Model
	MessageUuid int64  `gorm:"column:message_uuid;index:idx_status_pair,unique;type:bigint;not null;comment:消息uuid"`
	UserUuid    string `gorm:"column:user_uuid;index:idx_status_pair,unique;type:char(20);not null;comment:接收者uuid"`
	Status      int8   `gorm:"column:status;not null;comment:状态，0已发送 1已送达 2已读"`
}

func (MessageStatus) TableName() string {
	return "message_status"
}
