// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/handler"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用，按模块分别注册各个路由组
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.registerAuthRoutes(r)       // 认证路由
	rt.registerUserRoutes(r)       // 用户路由
	rt.registerContactRoutes(r)    // 联系人路由
	rt.registerInvitationRoutes(r) // 邀请路由
	rt.registerRoomRoutes(r)       // 房间路由
	rt.registerMessageRoutes(r)    // 消息路由
	rt.registerStatusRoutes(r)     // 动态路由
	rt.registerCallRoutes(r)       // 通话路由
	rt.registerWebSocketRoutes(r)  // WebSocket 路由
}
