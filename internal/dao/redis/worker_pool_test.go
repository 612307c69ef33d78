package redis

import (
	"testing"
	"time"
)

func TestInitCacheWorkerIdempotent(t *testing.T) {
	InitCacheWorker(2, 8)
	first := cacheTaskChan

	// 重复初始化不得换掉通道，否则先启动的 Worker 会永远阻塞在旧通道上
	InitCacheWorker(4, 256)
	if cacheTaskChan != first {
		t.Fatal("re-init replaced the task channel")
	}

	done := make(chan struct{})
	SubmitCacheTask(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("submitted task was not executed")
	}
}
