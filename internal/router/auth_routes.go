package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerAuthRoutes 注册认证相关路由
func (rt *Router) registerAuthRoutes(r *gin.Engine) {
	// 公开接口（无需认证）
	r.POST("/auth/register", rt.handlers.User.Register)
	r.POST("/auth/login", rt.handlers.User.Login)

	// 需要认证的接口
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.JWTAuth())
	{
		authGroup.POST("/logout", rt.handlers.User.Logout)
	}
}
