package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerRoomRoutes 注册房间相关路由
func (rt *Router) registerRoomRoutes(r *gin.Engine) {
	roomGroup := r.Group("/room")
	roomGroup.Use(middleware.JWTAuth())
	{
		roomGroup.POST("/direct", rt.handlers.Room.GetOrCreateDirect)
		roomGroup.GET("/list", rt.handlers.Room.GetRoomList)
		roomGroup.POST("/markRead", rt.handlers.Room.MarkRead)
	}
}
