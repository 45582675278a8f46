package handlers

import (
	"errors"

	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/internal/validators"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer sentinels onto HTTP responses.
// Anything unmapped is an internal error; the raw cause never reaches
// the client.
func respondServiceError(c *gin.Context, err error) {
	var fieldErr *services.ValidationError
	if errors.As(err, &fieldErr) {
		utils.ValidationErrorResponse(c, map[string]string{fieldErr.Field: fieldErr.Message})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "resource")
	case errors.Is(err, services.ErrStoreUnavailable):
		utils.StoreUnavailableResponse(c)
	case errors.Is(err, services.ErrBookingFailed):
		utils.BookingFailedResponse(c)
	default:
		utils.InternalServerErrorResponse(c)
	}
}

func respondValidationErrors(c *gin.Context, errs validators.ValidationErrors) {
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[err.Field] = err.Message
	}
	utils.ValidationErrorResponse(c, details)
}
