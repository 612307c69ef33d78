// Package relay 实现实时事件转发
// conn.go 负责 WebSocket 连接的生命周期：升级、读写协程、断开注销
package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wave_chat_server/pkg/constants"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UserConn 单个在线用户的 WebSocket 连接
type UserConn struct {
	Conn     *websocket.Conn
	Uuid     string
	SendBack chan []byte // 待推送给前端的事件

	broker MessageBroker
}

// Read 读协程
// 推送通道是单向的，前端不经 WebSocket 上行业务数据
// 读循环只用于感知断开：读出错即注销连接
func (c *UserConn) Read() {
	defer c.broker.UnregisterClient(c)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			zap.L().Debug("ws连接断开", zap.String("uuid", c.Uuid), zap.Error(err))
			return
		}
	}
}

// Write 写协程，从 SendBack 通道取事件推送给前端
func (c *UserConn) Write() {
	for data := range c.SendBack {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			zap.L().Error("ws推送失败", zap.String("uuid", c.Uuid), zap.Error(err))
			return
		}
	}
}

// NewClientInit 前端建立 WebSocket 连接时调用
// 升级连接、注册到 broker 并启动读写协程
func NewClientInit(c *gin.Context, broker MessageBroker, userUuid string) error {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws升级失败", zap.Error(err))
		return err
	}
	client := &UserConn{
		Conn:     conn,
		Uuid:     userUuid,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		broker:   broker,
	}
	broker.RegisterClient(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功", zap.String("uuid", userUuid))
	return nil
}

// ClientLogout 用户登出时主动断开其连接
func ClientLogout(broker MessageBroker, userUuid string) {
	client := broker.GetClient(userUuid)
	if client == nil {
		return
	}
	broker.UnregisterClient(client)
	if err := client.Conn.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	close(client.SendBack)
}
