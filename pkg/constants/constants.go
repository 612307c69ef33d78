package constants

import "time"

const (
	CHANNEL_SIZE  = 100 // 通道大小
	REDIS_TIMEOUT = 1   // redis timeout (分钟)

	INVITE_TOKEN_LENGTH   = 32   // 邀请令牌长度
	INVITE_DEFAULT_USES   = 1000 // 默认邀请最大使用次数（二维码场景）
	STATUS_DEFAULT_EXPIRY = 24 * time.Hour // 动态默认过期时间

	CALL_HISTORY_LIMIT = 50 // 通话记录查询条数上限

	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天

	TIME_FORMAT = "2006-01-02 15:04:05" // 统一时间格式
)
