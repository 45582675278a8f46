package handlers

import (
	"tripshare/internal/middleware"
	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TripHandler struct {
	tripService services.TripService
}

func NewTripHandler(tripService services.TripService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
	}
}

// SearchTrips runs the filter pipeline over published trips. No matches
// is a successful response with an empty list; only a store failure
// produces the unavailable banner.
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var criteria services.SearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		utils.BadRequestResponse(c, "Invalid search parameters")
		return
	}

	if errs := validators.ValidateSearchCriteria(&criteria); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.tripService.Search(c.Request.Context(), &criteria, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Trips retrieved successfully", result.Trips, &utils.Meta{
		Pagination: result.Meta,
		Total:      result.Total,
		Count:      len(result.Trips),
	})
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip retrieved successfully", trip)
}

// GetRelatedTrips returns a handful of other upcoming trips on the same
// route. Lookup trouble degrades to an empty list, never an error page.
func (h *TripHandler) GetRelatedTrips(c *gin.Context) {
	tripID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	trips, err := h.tripService.GetRelatedTrips(c.Request.Context(), tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Related trips retrieved successfully", trips)
}

func (h *TripHandler) GetPopularCities(c *gin.Context) {
	cities, err := h.tripService.GetPopularCities(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Popular cities retrieved successfully", cities)
}

func (h *TripHandler) GetMyTrips(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	trips, total, err := h.tripService.GetTripsByDriver(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Trips retrieved successfully", trips, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(trips),
	})
}

func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID.IsZero() {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if errs := validators.ValidateCreateTrip(&request); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), userID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Trip published successfully", trip)
}

func (h *TripHandler) UpdateTrip(c *gin.Context) {
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

	var request services.UpdateTripRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.tripService.UpdateTrip(c.Request.Context(), userID, tripID, &request); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip updated successfully", nil)
}

func (h *TripHandler) CancelTrip(c *gin.Context) {
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

	if err := h.tripService.CancelTrip(c.Request.Context(), userID, tripID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Trip cancelled successfully", nil)
}
