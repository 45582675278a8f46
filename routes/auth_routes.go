package routes

import (
	"tripshare/internal/handlers"
	"tripshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the identity-provider session exchange
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, auth *middleware.AuthMiddleware) {
	group := r.Group("/auth")
	{
		group.POST("/login", authHandler.Login)
		group.POST("/refresh", authHandler.RefreshToken)

		protected := group.Group("")
		protected.Use(auth.RequireAuth())
		{
			protected.POST("/logout", authHandler.Logout)
			protected.POST("/revoke-all", authHandler.RevokeAllSessions)
		}
	}
}
