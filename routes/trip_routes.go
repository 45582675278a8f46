package routes

import (
	"time"

	"tripshare/internal/handlers"
	"tripshare/internal/middleware"
	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupTripRoutes sets up routes for trip search and publication
func SetupTripRoutes(r *gin.RouterGroup, tripHandler *handlers.TripHandler, auth *middleware.AuthMiddleware, limiter *RateLimiters) {
	trips := r.Group("/trips")
	{
		// Public search and browse routes
		trips.GET("", limiter.Search, tripHandler.SearchTrips)
		trips.GET("/cities/popular", tripHandler.GetPopularCities)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.GET("/:id/related", tripHandler.GetRelatedTrips)

		// Driver routes
		protected := trips.Group("")
		protected.Use(auth.RequireAuth())
		{
			protected.POST("", tripHandler.CreateTrip)
			protected.PUT("/:id", tripHandler.UpdateTrip)
			protected.DELETE("/:id", tripHandler.CancelTrip)
		}
	}

	mine := r.Group("/me/trips")
	mine.Use(auth.RequireAuth())
	{
		mine.GET("", tripHandler.GetMyTrips)
	}
}

// RateLimiters bundles the per-surface throttles so route files share
// one configured set.
type RateLimiters struct {
	Default gin.HandlerFunc
	Search  gin.HandlerFunc
	Booking gin.HandlerFunc
}

func NewRateLimiters(cache services.CacheService, log *logger.Logger) *RateLimiters {
	return &RateLimiters{
		Default: middleware.RateLimit(cache, "api", utils.DefaultRateLimit, time.Minute, log),
		Search:  middleware.RateLimit(cache, "search", utils.SearchRateLimit, time.Minute, log),
		Booking: middleware.RateLimit(cache, "booking", utils.BookingRateLimit, time.Minute, log),
	}
}
