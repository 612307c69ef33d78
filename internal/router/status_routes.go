package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerStatusRoutes 注册动态相关路由
func (rt *Router) registerStatusRoutes(r *gin.Engine) {
	statusGroup := r.Group("/status")
	statusGroup.Use(middleware.JWTAuth())
	{
		statusGroup.POST("/create", rt.handlers.Status.CreateStatus)
		statusGroup.GET("/feed", rt.handlers.Status.GetFeed)
		statusGroup.GET("/my", rt.handlers.Status.GetMyStatuses)
		statusGroup.POST("/view", rt.handlers.Status.RecordView)
		statusGroup.GET("/viewers", rt.handlers.Status.GetViewers)
		statusGroup.POST("/react", rt.handlers.Status.React)
		statusGroup.POST("/unreact", rt.handlers.Status.Unreact)
		statusGroup.POST("/delete", rt.handlers.Status.DeleteStatus)
	}
}
