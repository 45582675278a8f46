package validators

import (
	"tripshare/internal/services"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ValidateBookingRequest(req *services.BookingRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.TripID != "" {
		if _, err := primitive.ObjectIDFromHex(req.TripID); err != nil {
			errors = append(errors, ValidationError{
				Field:   "trip_id",
				Tag:     "object_id",
				Message: "Invalid ID format",
			})
		}
	}

	if req.Seats > utils.MaxTripSeats {
		errors = append(errors, ValidationError{
			Field:   "seats",
			Tag:     "max",
			Message: "Seat count exceeds the per-trip maximum",
		})
	}

	if len(req.Message) > utils.MaxMessageLength {
		errors = append(errors, ValidationError{
			Field:   "message",
			Tag:     "max",
			Message: "Message is too long",
		})
	}

	return errors
}
