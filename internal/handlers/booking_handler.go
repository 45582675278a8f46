package handlers

import (
	"context"

	"tripshare/internal/middleware"
	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// SubmitBooking creates a pending reservation. Anonymous submissions are
// rejected before anything is written.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.BookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if errs := validators.ValidateBookingRequest(&request); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	booking, err := h.bookingService.SubmitBooking(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking submitted successfully", booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetUserBookings(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(bookings),
	})
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), userID, bookingID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", nil)
}

// GetTripBookings lists reservations on one of the caller's own trips.
func (h *BookingHandler) GetTripBookings(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetTripBookings(c.Request.Context(), userID, tripID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(bookings),
	})
}

func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.resolveBooking(c, h.bookingService.AcceptBooking, "Booking accepted")
}

func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.resolveBooking(c, h.bookingService.RejectBooking, "Booking rejected")
}

func (h *BookingHandler) resolveBooking(c *gin.Context, resolve func(ctx context.Context, driverID, bookingID primitive.ObjectID) error, message string) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID")
		return
	}

	if err := resolve(c.Request.Context(), userID, bookingID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, nil)
}
