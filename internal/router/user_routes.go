package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerUserRoutes 注册用户相关路由
func (rt *Router) registerUserRoutes(r *gin.Engine) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.JWTAuth())
	{
		userGroup.GET("/me", rt.handlers.User.GetMyInfo)
		userGroup.GET("/info/:uuid", rt.handlers.User.GetUserInfo)
		userGroup.POST("/update", rt.handlers.User.UpdateUserInfo)
	}
}
