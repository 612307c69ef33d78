package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wave_chat_server/internal/config"
	dao "wave_chat_server/internal/dao/mysql"
	myredis "wave_chat_server/internal/dao/redis"
	"wave_chat_server/internal/handler"
	"wave_chat_server/internal/https_server"
	"wave_chat_server/internal/infrastructure/logger"
	"wave_chat_server/internal/service"
	"wave_chat_server/internal/service/relay"
	"wave_chat_server/pkg/util/jwt"
	"wave_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化参数校验器翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("校验器翻译器初始化失败", zap.Error(err))
	}

	// 4. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis（内部一并启动缓存异步工作池）
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)

	// 7. 初始化雪花算法节点
	snowflake.Init()

	// 8. 初始化事件转发服务
	// channel 模式单机直推，kafka 模式跨节点广播
	relayServer := relay.NewServer(conf.KafkaConfig.MessageMode)
	if conf.KafkaConfig.MessageMode == "kafka" {
		relayServer.InitKafka()
	}
	relayServer.Start()
	zap.L().Info("事件转发服务初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 9. 初始化 Service 层（依赖注入）
	service.InitServices(repos, myredis.NewCacheService(), relayServer)
	zap.L().Info("Service 层初始化成功")

	// 10. 初始化 Handler 层与 HTTP 服务器
	handlers := handler.NewHandlers(service.Svc, relayServer.GetBroker())
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动", zap.String("addr", srv.Addr))

	// 监听退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("服务器关闭异常", zap.Error(err))
	}

	relayServer.Close()

	zap.L().Info("服务器已关闭")
}
