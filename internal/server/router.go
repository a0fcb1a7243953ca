package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/chatwave/internal/handlers"
	"github.com/thereayou/chatwave/internal/middleware"
	"github.com/thereayou/chatwave/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	channelH *handlers.ChannelHandler,
	invitationH *handlers.InvitationHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
	}

	// API endpoints (bearer)
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/auth/logout", authH.Logout)

		api.GET("/channels", channelH.ListChannels)
		api.POST("/channels", channelH.CreateChannel)
		api.GET("/channels/:id", channelH.GetChannel)
		api.GET("/channels/:id/messages", channelH.GetMessages)
		api.POST("/channels/:id/invite", invitationH.Invite)

		api.GET("/invitations", invitationH.ListInvitations)
		api.POST("/invitations/:id/respond", invitationH.Respond)
	}

	// WebSocket endpoint (токен в query или заголовке)
	wsGroup := r.Group("/ws")
	wsGroup.Use(middleware.WSAuthMiddleware(jwtMgr, rdb))
	{
		wsGroup.GET("/:channel_id", wsH.HandleWebSocket)
	}
}
