package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerContactRoutes 注册联系人相关路由
func (rt *Router) registerContactRoutes(r *gin.Engine) {
	contactGroup := r.Group("/contact")
	contactGroup.Use(middleware.JWTAuth())
	{
		contactGroup.POST("/add", rt.handlers.Contact.AddContact)
		contactGroup.POST("/nickname", rt.handlers.Contact.SetNickname)
		contactGroup.POST("/block", rt.handlers.Contact.BlockContact)
		contactGroup.POST("/unblock", rt.handlers.Contact.UnblockContact)
		contactGroup.GET("/list", rt.handlers.Contact.GetContactList)
	}
}
