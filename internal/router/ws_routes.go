package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerWebSocketRoutes 注册 WebSocket 路由
// 握手时 token 通过 query 参数传递，JWTAuth 中间件兼容该方式
func (rt *Router) registerWebSocketRoutes(r *gin.Engine) {
	wsGroup := r.Group("/ws")
	wsGroup.Use(middleware.JWTAuth())
	{
		wsGroup.GET("", rt.handlers.Ws.Connect)
	}
}
