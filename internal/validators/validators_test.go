package validators

import (
	"strings"
	"testing"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/services"
)

func hasFieldError(errs ValidationErrors, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func validTripRequest() *services.CreateTripRequest {
	return &services.CreateTripRequest{
		Origin:        "Madrid",
		Destination:   "Valencia",
		Date:          time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		DepartureTime: "08:30",
		Price:         25,
		Seats:         3,
	}
}

func TestValidateCreateTripAcceptsValidRequest(t *testing.T) {
	if errs := ValidateCreateTrip(validTripRequest()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateCreateTripRejectsPastDate(t *testing.T) {
	req := validTripRequest()
	req.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	errs := ValidateCreateTrip(req)
	if !hasFieldError(errs, "date") {
		t.Fatalf("expected date error, got %v", errs)
	}
}

func TestValidateCreateTripRejectsMalformedDate(t *testing.T) {
	req := validTripRequest()
	req.Date = "15/06/2026"

	if errs := ValidateCreateTrip(req); !hasFieldError(errs, "date") {
		t.Fatalf("expected date error, got %v", errs)
	}
}

func TestValidateCreateTripRejectsBadClocks(t *testing.T) {
	req := validTripRequest()
	req.DepartureTime = "8h30"
	req.ArrivalTime = "25:00"

	errs := ValidateCreateTrip(req)
	if !hasFieldError(errs, "departure_time") {
		t.Errorf("expected departure_time error, got %v", errs)
	}
	if !hasFieldError(errs, "arrival_time") {
		t.Errorf("expected arrival_time error, got %v", errs)
	}
}

func TestValidateCreateTripLimitsStops(t *testing.T) {
	req := validTripRequest()
	for i := 0; i < 6; i++ {
		req.Stops = append(req.Stops, models.Stop{Location: "Cuenca", Time: "09:00"})
	}

	if errs := ValidateCreateTrip(req); !hasFieldError(errs, "stops") {
		t.Fatalf("expected stops error, got %v", errs)
	}
}

func TestValidateCreateTripRejectsStopWithoutClock(t *testing.T) {
	req := validTripRequest()
	req.Stops = []models.Stop{{Location: "Cuenca", Time: "around nine"}}

	if errs := ValidateCreateTrip(req); !hasFieldError(errs, "stops") {
		t.Fatalf("expected stops error, got %v", errs)
	}
}

func TestValidateCreateTripLimitsNotesAndFeatures(t *testing.T) {
	req := validTripRequest()
	req.Notes = strings.Repeat("x", 1001)
	for i := 0; i < 11; i++ {
		req.Features = append(req.Features, "tag")
	}

	errs := ValidateCreateTrip(req)
	if !hasFieldError(errs, "notes") {
		t.Errorf("expected notes error, got %v", errs)
	}
	if !hasFieldError(errs, "features") {
		t.Errorf("expected features error, got %v", errs)
	}
}

func TestValidateSearchCriteriaEmptyIsValid(t *testing.T) {
	if errs := ValidateSearchCriteria(&services.SearchCriteria{}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateSearchCriteriaRejectsInvertedPriceRange(t *testing.T) {
	min, max := 50.0, 20.0
	criteria := &services.SearchCriteria{MinPrice: &min, MaxPrice: &max}

	if errs := ValidateSearchCriteria(criteria); !hasFieldError(errs, "max_price") {
		t.Fatalf("expected max_price error, got %v", errs)
	}
}

func TestValidateSearchCriteriaRejectsNegativePrice(t *testing.T) {
	min := -1.0
	criteria := &services.SearchCriteria{MinPrice: &min}

	if errs := ValidateSearchCriteria(criteria); !hasFieldError(errs, "min_price") {
		t.Fatalf("expected min_price error, got %v", errs)
	}
}

func TestValidateSearchCriteriaRejectsOutOfRangeRating(t *testing.T) {
	rating := 5.5
	criteria := &services.SearchCriteria{MinRating: &rating}

	if errs := ValidateSearchCriteria(criteria); !hasFieldError(errs, "min_rating") {
		t.Fatalf("expected min_rating error, got %v", errs)
	}
}

func TestValidateSearchCriteriaRejectsUnknownSort(t *testing.T) {
	criteria := &services.SearchCriteria{SortBy: "cheapest_first"}

	if errs := ValidateSearchCriteria(criteria); !hasFieldError(errs, "sort_by") {
		t.Fatalf("expected sort_by error, got %v", errs)
	}
}

func TestValidateSearchCriteriaAcceptsKnownSortsAndClocks(t *testing.T) {
	for _, sort := range []string{"recommended", "price_asc", "price_desc", "departure", "rating"} {
		criteria := &services.SearchCriteria{
			SortBy:           sort,
			MinDepartureTime: "06:00",
			MaxDepartureTime: "12:00",
		}
		if errs := ValidateSearchCriteria(criteria); len(errs) != 0 {
			t.Errorf("sort %q: expected no errors, got %v", sort, errs)
		}
	}
}

func TestValidateSearchCriteriaRejectsBadClocks(t *testing.T) {
	criteria := &services.SearchCriteria{MinDepartureTime: "6am", MaxDepartureTime: "noon"}

	errs := ValidateSearchCriteria(criteria)
	if !hasFieldError(errs, "min_departure_time") {
		t.Errorf("expected min_departure_time error, got %v", errs)
	}
	if !hasFieldError(errs, "max_departure_time") {
		t.Errorf("expected max_departure_time error, got %v", errs)
	}
}

func TestValidateBookingRequestRejectsBadTripID(t *testing.T) {
	req := &services.BookingRequest{TripID: "not-an-id", Seats: 1}

	if errs := ValidateBookingRequest(req); !hasFieldError(errs, "trip_id") {
		t.Fatalf("expected trip_id error, got %v", errs)
	}
}

func TestValidateBookingRequestLimitsSeats(t *testing.T) {
	req := &services.BookingRequest{TripID: "507f1f77bcf86cd799439011", Seats: 9}

	if errs := ValidateBookingRequest(req); !hasFieldError(errs, "seats") {
		t.Fatalf("expected seats error, got %v", errs)
	}
}

func TestValidateBookingRequestLimitsMessage(t *testing.T) {
	req := &services.BookingRequest{
		TripID:  "507f1f77bcf86cd799439011",
		Seats:   1,
		Message: strings.Repeat("x", 501),
	}

	errs := ValidateBookingRequest(req)
	if !hasFieldError(errs, "message") && !hasFieldError(errs, "Message") {
		t.Fatalf("expected message error, got %v", errs)
	}
}

func TestValidateProfileUpdateTrimsAndRejectsBlankName(t *testing.T) {
	blank := "   "
	req := &services.UpdateProfileRequest{Name: &blank}

	if errs := ValidateProfileUpdate(req); !hasFieldError(errs, "name") {
		t.Fatalf("expected name error, got %v", errs)
	}

	padded := "  Ana García  "
	req = &services.UpdateProfileRequest{Name: &padded}
	if errs := ValidateProfileUpdate(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if *req.Name != "Ana García" {
		t.Fatalf("expected trimmed name, got %q", *req.Name)
	}
}

func TestValidateProfileUpdateRejectsBadPhone(t *testing.T) {
	phone := "555-1234"
	req := &services.UpdateProfileRequest{Phone: &phone}

	if errs := ValidateProfileUpdate(req); !hasFieldError(errs, "phone") {
		t.Fatalf("expected phone error, got %v", errs)
	}
}
