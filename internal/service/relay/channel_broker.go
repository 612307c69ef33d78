// Package relay 实现实时事件转发
// channel_broker.go 单机模式实现：事件经进程内通道转发，不依赖外部消息队列
package relay

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"wave_chat_server/pkg/constants"
)

// MessageBroker 事件转发代理接口
// 两种实现：ChannelBroker（单机）、KafkaBroker（分布式）
type MessageBroker interface {
	// Publish 投递一条信封（targets + 事件）
	Publish(ctx context.Context, data []byte) error
	// RegisterClient 注册在线连接
	RegisterClient(client *UserConn)
	// UnregisterClient 注销连接
	UnregisterClient(client *UserConn)
	// GetClient 查询指定用户的本机连接，不在线返回 nil
	GetClient(userUuid string) *UserConn
	// Start 启动消费循环（阻塞，应在独立协程运行）
	Start()
	// Close 关闭代理资源
	Close()
}

// clientTable 在线连接表，两种 broker 共用
// Key 为用户 uuid，Value 为 *UserConn
type clientTable struct {
	clients sync.Map
}

func (t *clientTable) store(c *UserConn) {
	t.clients.Store(c.Uuid, c)
	zap.L().Debug("用户上线", zap.String("uuid", c.Uuid))
}

func (t *clientTable) remove(c *UserConn) {
	t.clients.Delete(c.Uuid)
	zap.L().Debug("用户下线", zap.String("uuid", c.Uuid))
}

func (t *clientTable) get(userUuid string) *UserConn {
	value, ok := t.clients.Load(userUuid)
	if !ok {
		return nil
	}
	return value.(*UserConn)
}

// deliver 把信封中的事件投递给目标中在本机的连接
// 连接发送缓冲满时丢弃该条推送，事件本体已持久化，前端拉取接口兜底
func (t *clientTable) deliver(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		zap.L().Error("信封反序列化失败", zap.Error(err))
		return
	}
	for _, target := range env.Targets {
		client := t.get(target)
		if client == nil {
			continue
		}
		select {
		case client.SendBack <- env.Event:
		default:
			zap.L().Warn("推送缓冲已满，丢弃事件", zap.String("uuid", target))
		}
	}
}

// ChannelBroker 单机事件转发器
type ChannelBroker struct {
	clientTable

	// Transmit 事件转发通道
	Transmit chan []byte
	// Login 客户端登录通道
	Login chan *UserConn
	// Logout 客户端登出通道
	Logout chan *UserConn
}

// NewChannelBroker 创建单机转发器
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		Transmit: make(chan []byte, constants.CHANNEL_SIZE),
		Login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		Logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
	}
}

// Start 主循环：处理登录、登出与事件转发
func (b *ChannelBroker) Start() {
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

		case data, ok := <-b.Transmit:
			if !ok {
				return
			}
			b.deliver(data)
		}
	}
}

// Publish 实现 MessageBroker：投递到进程内通道
func (b *ChannelBroker) Publish(ctx context.Context, data []byte) error {
	select {
	case b.Transmit <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterClient 实现 MessageBroker
func (b *ChannelBroker) RegisterClient(client *UserConn) {
	b.Login <- client
}

// UnregisterClient 实现 MessageBroker
func (b *ChannelBroker) UnregisterClient(client *UserConn) {
	b.Logout <- client
}

// GetClient 实现 MessageBroker
func (b *ChannelBroker) GetClient(userUuid string) *UserConn {
	return b.get(userUuid)
}

// Close 关闭服务通道
func (b *ChannelBroker) Close() {
	close(b.Login)
	close(b.Logout)
	close(b.Transmit)
}
