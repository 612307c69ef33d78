package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerMessageRoutes 注册消息相关路由
func (rt *Router) registerMessageRoutes(r *gin.Engine) {
	messageGroup := r.Group("/message")
	messageGroup.Use(middleware.JWTAuth())
	{
		messageGroup.POST("/send", rt.handlers.Message.SendMessage)
		messageGroup.GET("/list", rt.handlers.Message.GetMessageList)
		messageGroup.POST("/edit", rt.handlers.Message.EditMessage)
		messageGroup.POST("/delete", rt.handlers.Message.DeleteMessage)
		messageGroup.POST("/status", rt.handlers.Message.UpsertStatus)
	}
}
