package validators

import (
	"time"

	"tripshare/internal/services"
	"tripshare/internal/utils"
)

// ValidateCreateTrip runs struct tags plus the cross-field rules that
// tags cannot express.
func ValidateCreateTrip(req *services.CreateTripRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			errors = append(errors, ValidationError{
				Field:   "date",
				Tag:     "trip_date",
				Message: "Date must be in YYYY-MM-DD format",
			})
		} else if date.Before(utils.StartOfDay(time.Now())) {
			errors = append(errors, ValidationError{
				Field:   "date",
				Tag:     "trip_date",
				Message: "Date must not be in the past",
			})
		}
	}

	if req.DepartureTime != "" && !utils.IsValidClock(req.DepartureTime) {
		errors = append(errors, ValidationError{
			Field:   "departure_time",
			Tag:     "hhmm",
			Message: "Time must be in HH:MM format",
		})
	}
	if req.ArrivalTime != "" && !utils.IsValidClock(req.ArrivalTime) {
		errors = append(errors, ValidationError{
			Field:   "arrival_time",
			Tag:     "hhmm",
			Message: "Time must be in HH:MM format",
		})
	}

	if len(req.Stops) > utils.MaxTripStops {
		errors = append(errors, ValidationError{
			Field:   "stops",
			Tag:     "max",
			Message: "Too many intermediate stops",
		})
	}
	for _, stop := range req.Stops {
		if stop.Location == "" || !utils.IsValidClock(stop.Time) {
			errors = append(errors, ValidationError{
				Field:   "stops",
				Tag:     "hhmm",
				Message: "Each stop needs a location and an HH:MM time",
			})
			break
		}
	}

	if len(req.Features) > utils.MaxFeatureTags {
		errors = append(errors, ValidationError{
			Field:   "features",
			Tag:     "max",
			Message: "Too many feature tags",
		})
	}
	if len(req.Notes) > utils.MaxNotesLength {
		errors = append(errors, ValidationError{
			Field:   "notes",
			Tag:     "max",
			Message: "Notes are too long",
		})
	}

	return errors
}

// ValidateSearchCriteria checks the query-string variant of the search
// form. Unknown sort options and malformed ranges fail fast; empty
// criteria are always valid.
func ValidateSearchCriteria(criteria *services.SearchCriteria) ValidationErrors {
	var errors ValidationErrors

	if criteria.Date != "" {
		if _, err := time.Parse("2006-01-02", criteria.Date); err != nil {
			errors = append(errors, ValidationError{
				Field:   "date",
				Tag:     "trip_date",
				Message: "Date must be in YYYY-MM-DD format",
			})
		}
	}

	for field, clock := range map[string]string{
		"min_departure_time": criteria.MinDepartureTime,
		"max_departure_time": criteria.MaxDepartureTime,
	} {
		if clock != "" && !utils.IsValidClock(clock) {
			errors = append(errors, ValidationError{
				Field:   field,
				Tag:     "hhmm",
				Message: "Time must be in HH:MM format",
			})
		}
	}

	if criteria.MinPrice != nil && *criteria.MinPrice < 0 {
		errors = append(errors, ValidationError{
			Field:   "min_price",
			Tag:     "min",
			Message: "Price must not be negative",
		})
	}
	if criteria.MinPrice != nil && criteria.MaxPrice != nil && *criteria.MinPrice > *criteria.MaxPrice {
		errors = append(errors, ValidationError{
			Field:   "max_price",
			Tag:     "gt",
			Message: "Price range is inverted",
		})
	}

	if criteria.MinRating != nil && (*criteria.MinRating < utils.MinRating || *criteria.MinRating > utils.MaxRating) {
		errors = append(errors, ValidationError{
			Field:   "min_rating",
			Tag:     "rating_value",
			Message: "Rating must be between 1.0 and 5.0",
		})
	}

	if criteria.SortBy != "" {
		switch criteria.SortBy {
		case utils.SortRecommended, utils.SortPriceAsc, utils.SortPriceDesc, utils.SortDeparture, utils.SortRating:
		default:
			errors = append(errors, ValidationError{
				Field:   "sort_by",
				Tag:     "sort_option",
				Message: "Unknown sort option",
			})
		}
	}

	return errors
}
