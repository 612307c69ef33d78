package router

import (
	"github.com/gin-gonic/gin"

	"wave_chat_server/internal/infrastructure/middleware"
)

// registerInvitationRoutes 注册邀请相关路由
func (rt *Router) registerInvitationRoutes(r *gin.Engine) {
	// 公开接口：扫码落地页查询令牌信息，无需登录
	r.GET("/invite/:token", rt.handlers.Invitation.LookupPublicInfo)

	invitationGroup := r.Group("/invitation")
	invitationGroup.Use(middleware.JWTAuth())
	{
		invitationGroup.GET("/my", rt.handlers.Invitation.GetMyInvitation)
		invitationGroup.POST("/regenerate", rt.handlers.Invitation.Regenerate)
		invitationGroup.POST("/accept", rt.handlers.Invitation.Accept)
	}
}
