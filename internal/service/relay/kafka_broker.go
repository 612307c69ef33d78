// Package relay 实现实时事件转发
// kafka_broker.go 分布式模式实现：事件经 Kafka 广播，每个节点只投递本机在线连接
package relay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wave_chat_server/internal/config"
	"wave_chat_server/pkg/constants"
)

// KafkaClient Kafka 底层连接封装，纯技术组件不含业务逻辑
type KafkaClient struct {
	Producer *kafka.Writer
	Consumer *kafka.Reader
}

// NewKafkaClient 创建 Kafka 客户端实例
func NewKafkaClient() *KafkaClient {
	return &KafkaClient{}
}

// KafkaInit 初始化生产者与消费者
func (k *KafkaClient) KafkaInit() {
	kafkaConfig := config.GetConfig().KafkaConfig
	k.Producer = &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.ChatTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
	}
	k.Consumer = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{kafkaConfig.HostPort},
		Topic:          kafkaConfig.ChatTopic,
		CommitInterval: kafkaConfig.Timeout * time.Second,
		GroupID:        "relay",
		StartOffset:    kafka.LastOffset,
	})
}

// KafkaClose 关闭 Kafka 资源
func (k *KafkaClient) KafkaClose() {
	if k.Producer != nil {
		if err := k.Producer.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
	if k.Consumer != nil {
		if err := k.Consumer.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}
}

// WriteMessage 向 Kafka 写入一条信封
func (k *KafkaClient) WriteMessage(ctx context.Context, key, value []byte) error {
	return k.Producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// KafkaBroker 分布式事件转发器
type KafkaBroker struct {
	clientTable

	// Login 客户端登录通道
	Login chan *UserConn
	// Logout 客户端登出通道
	Logout chan *UserConn

	client *KafkaClient
}

// NewKafkaBroker 创建 Kafka 转发器
func NewKafkaBroker(client *KafkaClient) *KafkaBroker {
	return &KafkaBroker{
		Login:  make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout: make(chan *UserConn, constants.CHANNEL_SIZE),
		client: client,
	}
}

// Start 启动消费与连接管理循环
// 消费协程从 Kafka 读取全量信封，deliver 只会命中本机在线连接
func (b *KafkaBroker) Start() {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error(fmt.Sprintf("kafka broker panic: %v", r))
		}
	}()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error(fmt.Sprintf("kafka consumer panic: %v", r))
			}
		}()
		for {
			kafkaMessage, err := b.client.Consumer.ReadMessage(context.Background())
			if err != nil {
				zap.L().Error(err.Error())
				continue
			}
			b.deliver(kafkaMessage.Value)
		}
	}()

	for {
		select {
		case client, ok := <-b.Login:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			b.store(client)

		case client, ok := <-b.Logout:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			b.remove(client)
		}
	}
}

// Publish 实现 MessageBroker：写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, data []byte) error {
	key := []byte(strconv.Itoa(config.GetConfig().KafkaConfig.Partition))
	return b.client.WriteMessage(ctx, key, data)
}

// RegisterClient 实现 MessageBroker
func (b *KafkaBroker) RegisterClient(client *UserConn) {
	b.Login <- client
}

// UnregisterClient 实现 MessageBroker
func (b *KafkaBroker) UnregisterClient(client *UserConn) {
	b.Logout <- client
}

// GetClient 实现 MessageBroker
func (b *KafkaBroker) GetClient(userUuid string) *UserConn {
	return b.get(userUuid)
}

// Close 关闭通道与 Kafka 资源
func (b *KafkaBroker) Close() {
	close(b.Login)
	close(b.Logout)
	if b.client != nil {
		b.client.KafkaClose()
	}
}
