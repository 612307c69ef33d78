// Package relay 实现实时事件转发
// server.go 转发服务器聚合结构：根据配置选择 broker，统一生命周期管理
package relay

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Notifier 业务层使用的推送接口
// Service 只依赖该接口，测试时可注入空实现
type Notifier interface {
	// PushToUsers 向一组用户推送事件，接收方不在线时静默跳过
	PushToUsers(targetUuids []string, event *Event)
}

// Server 事件转发服务器
type Server struct {
	broker      MessageBroker
	kafkaClient *KafkaClient
	mode        string // "channel" 或 "kafka"
}

// NewServer 创建转发服务器，mode 取 "kafka" 时走消息队列，否则走进程内通道
func NewServer(mode string) *Server {
	s := &Server{mode: mode}
	if mode == "kafka" {
		s.kafkaClient = NewKafkaClient()
		s.broker = NewKafkaBroker(s.kafkaClient)
	} else {
		s.broker = NewChannelBroker()
	}
	return s
}

// InitKafka 初始化 Kafka 连接，仅 kafka 模式需要
func (s *Server) InitKafka() {
	if s.kafkaClient != nil {
		s.kafkaClient.KafkaInit()
	}
}

// Start 启动消费循环
func (s *Server) Start() {
	go s.broker.Start()
}

// Close 关闭转发服务器
func (s *Server) Close() {
	s.broker.Close()
}

// GetBroker 获取底层 broker，供 WebSocket 网关注册连接
func (s *Server) GetBroker() MessageBroker {
	return s.broker
}

// PushToUsers 实现 Notifier
// 推送属于尽力而为：序列化或投递失败只记日志，不影响调用方主流程
func (s *Server) PushToUsers(targetUuids []string, event *Event) {
	if s == nil || len(targetUuids) == 0 || event == nil {
		return
	}
	eventData, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("事件序列化失败", zap.Error(err))
		return
	}
	data, err := json.Marshal(envelope{Targets: targetUuids, Event: eventData})
	if err != nil {
		zap.L().Error("信封序列化失败", zap.Error(err))
		return
	}
	if err := s.broker.Publish(context.Background(), data); err != nil {
		zap.L().Error("事件投递失败", zap.Error(err))
	}
}
