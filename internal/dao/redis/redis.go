package redis

import (
	"errors"
	"time"

	"wave_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// 连接未初始化时所有操作退化为无操作，缓存属于尽力而为层

// ==================== 基础 String 操作 ====================

// SetKeyEx 设置键值对并指定过期时间
func SetKeyEx(key string, value string, timeout time.Duration) error {
	if redisClient == nil {
		return nil
	}

	if err := redisClient.Set(ctx, key, value, timeout).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// GetKey 获取键对应的值
// 如果键不存在，返回空字符串和 nil（不视为错误）
func GetKey(key string) (string, error) {
	if redisClient == nil {
		return "", nil
	}

	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // 键不存在，返回空但不报错
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// GetKeyNilIsErr 获取键对应的值（键不存在视为 CodeNotFound 错误）
func GetKeyNilIsErr(key string) (string, error) {
	if redisClient == nil {
		return "", errorx.New(errorx.CodeNotFound, "redis 未初始化")
	}

	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errorx.Wrapf(err, errorx.CodeNotFound, "redis key %s not found", key)
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// ==================== 删除操作 ====================

// DelKeyIfExists 删除键（如果存在）
func DelKeyIfExists(key string) error {
	if redisClient == nil {
		return nil
	}

	exists, err := redisClient.Exists(ctx, key).Result()
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis exists key %s", key)
	}
	if exists == 1 {
		if err := redisClient.Del(ctx, key).Err(); err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis delete key %s", key)
		}
	}
	return nil
}

// DelKeysWithPattern 删除匹配模式的所有键
// 使用 SCAN 分批扫描 + UNLINK 异步删除，避免阻塞 Redis
func DelKeysWithPattern(pattern string) error {
	if redisClient == nil {
		return nil
	}

	var cursor uint64
	for {
		var keys []string
		var err error

		// 每次扫描 500 条，减少循环次数
		keys, cursor, err = redisClient.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
		}

		if len(keys) > 0 {
			// 使用 UNLINK 而非 DEL，在后台线程释放内存
			if err := redisClient.Unlink(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink keys with pattern %s", pattern)
			}
		}

		if cursor == 0 {
			break
		}
	}
	return nil
}

// ==================== Set 集合操作 ====================

// SAddMembers 向集合添加成员
func SAddMembers(key string, members ...interface{}) error {
	if redisClient == nil {
		return nil
	}

	if err := redisClient.SAdd(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis sadd key %s", key)
	}
	return nil
}

// SMembers 获取集合中的所有成员
func SMembers(key string) ([]string, error) {
	if redisClient == nil {
		return nil, nil
	}

	members, err := redisClient.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis smembers key %s", key)
	}
	return members, nil
}

// SRemMembers 从集合中移除成员
func SRemMembers(key string, members ...interface{}) error {
	if redisClient == nil {
		return nil
	}

	if err := redisClient.SRem(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis srem key %s", key)
	}
	return nil
}
