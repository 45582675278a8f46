package routes

import (
	"tripshare/internal/handlers"
	"tripshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up profile, stats and review routes
func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, auth *middleware.AuthMiddleware) {
	users := r.Group("/users")
	{
		// Public profile surface
		users.GET("/:id", userHandler.GetUserProfile)
		users.GET("/:id/stats", userHandler.GetUserStats)
		users.GET("/:id/reviews", userHandler.GetUserReviews)
	}

	me := r.Group("/me")
	me.Use(auth.RequireAuth())
	{
		me.GET("", userHandler.GetMyProfile)
		me.PUT("", userHandler.UpdateMyProfile)
		me.POST("/avatar", userHandler.UploadAvatar)
	}

	trips := r.Group("/trips")
	{
		trips.GET("/:id/reviews", userHandler.GetTripReviews)
	}

	reviews := r.Group("/reviews")
	reviews.Use(auth.RequireAuth())
	{
		reviews.POST("", userHandler.CreateReview)
	}
}
