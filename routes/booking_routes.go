package routes

import (
	"tripshare/internal/handlers"
	"tripshare/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up routes for the booking flow. Everything
// here requires authentication: submissions are rejected before any
// write when the caller is anonymous.
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, auth *middleware.AuthMiddleware, limiter *RateLimiters) {
	bookings := r.Group("/bookings")
	bookings.Use(auth.RequireAuth())
	{
		bookings.POST("", limiter.Booking, bookingHandler.SubmitBooking)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id/cancel", bookingHandler.CancelBooking)

		// Driver decisions on incoming requests
		bookings.PUT("/:id/accept", bookingHandler.AcceptBooking)
		bookings.PUT("/:id/reject", bookingHandler.RejectBooking)
	}

	mine := r.Group("/me/bookings")
	mine.Use(auth.RequireAuth())
	{
		mine.GET("", bookingHandler.GetMyBookings)
	}

	trips := r.Group("/trips")
	trips.Use(auth.RequireAuth())
	{
		trips.GET("/:id/bookings", bookingHandler.GetTripBookings)
	}
}
