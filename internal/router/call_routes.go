package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerCallRoutes 注册通话相关路由
func (rt *Router) registerCallRoutes(r *gin.Engine) {
	callGroup := r.Group("/call")
	callGroup.Use(middleware.JWTAuth())
	{
		callGroup.POST("/initiate", rt.handlers.Call.Initiate)
		callGroup.POST("/accept", rt.handlers.Call.Accept)
		callGroup.POST("/decline", rt.handlers.Call.Decline)
		callGroup.POST("/end", rt.handlers.Call.End)
		callGroup.GET("/history", rt.handlers.Call.GetHistory)
		callGroup.POST("/ice", rt.handlers.Call.AddIceCandidate)
	}
}
