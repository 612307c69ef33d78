package redis

import (
	"context"
	"time"
)

// cacheService CacheService 的 Redis 实现
// 方法委托给包级函数，context 参数保留给未来的超时控制
type cacheService struct{}

// NewCacheService 创建缓存服务实例
func NewCacheService() AsyncCacheService {
	return &cacheService{}
}

func (s *cacheService) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	return SetKeyEx(key, value, ttl)
}

func (s *cacheService) Get(_ context.Context, key string) (string, error) {
	return GetKey(key)
}

func (s *cacheService) Delete(_ context.Context, key string) error {
	return DelKeyIfExists(key)
}

func (s *cacheService) DeleteByPattern(_ context.Context, pattern string) error {
	return DelKeysWithPattern(pattern)
}

func (s *cacheService) AddToSet(_ context.Context, key string, members ...interface{}) error {
	return SAddMembers(key, members...)
}

func (s *cacheService) GetSetMembers(_ context.Context, key string) ([]string, error) {
	return SMembers(key)
}

func (s *cacheService) RemoveFromSet(_ context.Context, key string, members ...interface{}) error {
	return SRemMembers(key, members...)
}

func (s *cacheService) SubmitTask(action func()) {
	SubmitCacheTask(action)
}
