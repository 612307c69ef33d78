// Package model 定义数据库实体模型
// 本文件定义音视频通话信令状态模型
// 本核心只持久化信令状态，SDP/ICE 载荷不做解析，媒体传输由 WebRTC 对端自行建立
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// 通话类型
const (
	CallTypeVideo int8 = 0 // 视频通话
	CallTypeAudio int8 = 1 // 语音通话
)

// 通话状态机
// initiated → ringing → accepted → ended
// 侧出口：ringing → declined；initiated/ringing → missed（外部计时器驱动）；
// 任何未结束状态 → failed（传输协作方侦测到故障时写入）
const (
	CallStatusInitiated int8 = 0
	CallStatusRinging   int8 = 1
	CallStatusAccepted  int8 = 2
	CallStatusDeclined  int8 = 3
	CallStatusEnded     int8 = 4
	CallStatusMissed    int8 = 5
	CallStatusFailed    int8 = 6
)

// VideoCall 通话会话模型
// AnsweredAt/EndedAt 既是数据又是状态标记，但每次置位都伴随 Status 枚举迁移，
// 读取方不需要从时间戳反推状态
type VideoCall struct {
	gorm.Model

	// Uuid 通话唯一标识
	// 格式：C + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:通话唯一id"`

	// RoomUuid 所属房间（当前仅支持单聊房间）
	RoomUuid string `gorm:"column:room_uuid;index;type:char(20);not null;comment:房间uuid"`

	// CallerUuid 主叫
	CallerUuid string `gorm:"column:caller_uuid;index;type:char(20);not null;comment:主叫uuid"`

	// ReceiverUuid 被叫（单聊房间的另一名成员）
	ReceiverUuid string `gorm:"column:receiver_uuid;index;type:char(20);not null;comment:被叫uuid"`

	// Type 通话类型，0=视频, 1=语音
	Type int8 `gorm:"column:type;not null;default:0;comment:通话类型"`

	// Status 通话状态
	Status int8 `gorm:"column:status;not null;default:0;comment:通话状态"`

	// InitiatedAt 发起时间
	InitiatedAt sql.NullTime `gorm:"column:initiated_at;type:datetime;comment:发起时间"`

	// AnsweredAt 接听时间，接听前为 NULL
	AnsweredAt sql.NullTime `gorm:"column:answered_at;type:datetime;comment:接听时间"`

	// EndedAt 结束时间
	EndedAt sql.NullTime `gorm:"column:ended_at;type:datetime;comment:结束时间"`

	// DurationSec 通话时长（秒）
	// 仅在 AnsweredAt 与 EndedAt 均有值时可计算：EndedAt - AnsweredAt
	// 振铃时间不计入时长
	DurationSec sql.NullInt64 `gorm:"column:duration_sec;comment:通话时长秒"`

	// OfferSdp 主叫 SDP offer，透传载荷
	OfferSdp string `gorm:"column:offer_sdp;type:TEXT;comment:offer sdp"`

	// AnswerSdp 被叫 SDP answer，透传载荷
	AnswerSdp string `gorm:"column:answer_sdp;type:TEXT;comment:answer sdp"`
}

func (VideoCall) TableName() string {
	return "video_call"
}

// CallParticipant 通话参与者，(call, user) 唯一
// IceCandidates 为 JSON 数组字符串，只追加，由信令转发协作方消费
type CallParticipant struct {
	gorm.Model
	CallUuid      string       `gorm:"column:call_uuid;index:idx_call_pair,unique;type:char(20);not null;comment:通话uuid"`
	UserUuid      string       `gorm:"column:user_uuid;index:idx_call_pair,unique;type:char(20);not null;comment:用户uuid"`
	JoinedAt      sql.NullTime `gorm:"column:joined_at;type:datetime;comment:加入时间"`
	LeftAt        sql.NullTime `gorm:"column:left_at;type:datetime;comment:离开时间"`
	IceCandidates string       `gorm:"column:ice_candidates;type:TEXT;comment:ICE候选JSON数组"`
}

func (CallParticipant) TableName() string {
	return "call_participant"
}
