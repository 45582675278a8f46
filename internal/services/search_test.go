package services

import (
	"testing"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/utils"
)

// searchNow anchors every test trip's date. It has to be the real clock:
// the service-level search paths filter against time.Now themselves.
var searchNow = time.Now().UTC()

func makeTrip(origin, destination string, daysFromNow int, departure string, price float64, seats int) *models.Trip {
	return &models.Trip{
		Origin:         origin,
		Destination:    destination,
		Date:           searchNow.AddDate(0, 0, daysFromNow),
		DepartureTime:  departure,
		Price:          price,
		AvailableSeats: seats,
		Status:         models.TripStatusPublished,
	}
}

func withRating(trip *models.Trip, rating float64) *models.Trip {
	trip.Driver = &models.DriverSnapshot{Name: "driver", Rating: rating}
	return trip
}

func origins(trips []*models.Trip) []string {
	result := make([]string, len(trips))
	for i, trip := range trips {
		result[i] = trip.Origin
	}
	return result
}

func assertOrigins(t *testing.T, got []*models.Trip, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d trips %v, want %d %v", len(got), origins(got), len(want), want)
	}
	for i, trip := range got {
		if trip.Origin != want[i] {
			t.Fatalf("position %d: got %q, want %q (full order %v)", i, trip.Origin, want[i], origins(got))
		}
	}
}

func TestFilterDropsPastTrips(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Yesterday", "X", -1, "08:00", 100, 3),
		makeTrip("Today", "X", 0, "08:00", 100, 3),
		makeTrip("Tomorrow", "X", 1, "08:00", 100, 3),
	}

	got := FilterTrips(trips, &SearchCriteria{}, searchNow)
	assertOrigins(t, got, "Today", "Tomorrow")
}

func TestFilterByExactDate(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Near", "X", 1, "08:00", 100, 3),
		makeTrip("Far", "X", 2, "08:00", 100, 3),
	}

	date := searchNow.AddDate(0, 0, 2).Format("2006-01-02")
	got := FilterTrips(trips, &SearchCriteria{Date: date}, searchNow)
	assertOrigins(t, got, "Far")
}

func TestFilterMalformedDateIsIgnored(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("A", "X", 1, "08:00", 100, 3),
		makeTrip("B", "X", 2, "08:00", 100, 3),
	}

	got := FilterTrips(trips, &SearchCriteria{Date: "not-a-date"}, searchNow)
	assertOrigins(t, got, "A", "B")
}

func TestFilterOriginSubstringCaseInsensitive(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Buenos Aires", "Rosario", 1, "08:00", 100, 3),
		makeTrip("Cordoba", "Rosario", 1, "08:00", 100, 3),
	}

	got := FilterTrips(trips, &SearchCriteria{Origin: "buenos"}, searchNow)
	assertOrigins(t, got, "Buenos Aires")

	got = FilterTrips(trips, &SearchCriteria{Destination: "ROSARIO"}, searchNow)
	assertOrigins(t, got, "Buenos Aires", "Cordoba")
}

func TestFilterPriceBoundsInclusive(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Cheap", "X", 1, "08:00", 50, 3),
		makeTrip("Mid", "X", 1, "08:00", 100, 3),
		makeTrip("Dear", "X", 1, "08:00", 150, 3),
	}

	min, max := 100.0, 100.0
	got := FilterTrips(trips, &SearchCriteria{MinPrice: &min, MaxPrice: &max}, searchNow)
	assertOrigins(t, got, "Mid")
}

func TestFilterDepartureWindowInclusive(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Dawn", "X", 1, "06:30", 100, 3),
		makeTrip("Morning", "X", 1, "09:00", 100, 3),
		makeTrip("Night", "X", 1, "22:15", 100, 3),
	}

	got := FilterTrips(trips, &SearchCriteria{MinDepartureTime: "09:00", MaxDepartureTime: "22:15"}, searchNow)
	assertOrigins(t, got, "Morning", "Night")
}

func TestFilterMinSeats(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Solo", "X", 1, "08:00", 100, 1),
		makeTrip("Family", "X", 1, "08:00", 100, 4),
	}

	got := FilterTrips(trips, &SearchCriteria{MinSeats: 3}, searchNow)
	assertOrigins(t, got, "Family")
}

func TestFilterMinRatingSkipsTripsWithoutDriverData(t *testing.T) {
	trips := []*models.Trip{
		withRating(makeTrip("Great", "X", 1, "08:00", 100, 3), 4.8),
		withRating(makeTrip("Poor", "X", 1, "08:00", 100, 3), 3.1),
		makeTrip("Unknown", "X", 1, "08:00", 100, 3),
	}

	minRating := 4.0
	got := FilterTrips(trips, &SearchCriteria{MinRating: &minRating}, searchNow)
	assertOrigins(t, got, "Great", "Unknown")
}

func TestFilterFeaturesRequiresAll(t *testing.T) {
	full := makeTrip("Full", "X", 1, "08:00", 100, 3)
	full.Features = []string{"AC", "Music", "Pets"}
	partial := makeTrip("Partial", "X", 1, "08:00", 100, 3)
	partial.Features = []string{"AC"}

	got := FilterTrips([]*models.Trip{full, partial}, &SearchCriteria{Features: []string{"ac", "pets"}}, searchNow)
	assertOrigins(t, got, "Full")
}

func TestFilterIsIdempotent(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("A", "X", 1, "08:00", 100, 3),
		makeTrip("B", "X", -1, "08:00", 100, 3),
		makeTrip("C", "X", 1, "08:00", 100, 1),
	}
	criteria := &SearchCriteria{MinSeats: 2}

	once := FilterTrips(trips, criteria, searchNow)
	twice := FilterTrips(once, criteria, searchNow)
	assertOrigins(t, twice, origins(once)...)
}

// A trip dated today at UTC midnight must survive the past-date filter
// even when the process clock sits in a zone west of Greenwich, where
// local midnight falls hours after the stored instant.
func TestFilterKeepsTodaysTripWestOfGreenwich(t *testing.T) {
	year, month, day := searchNow.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	trip := makeTrip("Buenos Aires", "Rosario", 0, "08:00", 100, 3)
	trip.Date = today
	past := makeTrip("Ayer", "Rosario", -1, "08:00", 100, 3)
	past.Date = today.AddDate(0, 0, -1)

	localNow := time.Date(year, month, day, 10, 0, 0, 0, time.FixedZone("ART", -3*60*60))

	got := FilterTrips([]*models.Trip{trip, past}, &SearchCriteria{}, localNow)
	assertOrigins(t, got, "Buenos Aires")
}

func TestSortPriceAscending(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Dear", "X", 1, "08:00", 300, 3),
		makeTrip("Cheap", "X", 1, "08:00", 100, 3),
		makeTrip("Mid", "X", 1, "08:00", 200, 3),
	}

	SortTrips(trips, utils.SortPriceAsc)
	assertOrigins(t, trips, "Cheap", "Mid", "Dear")
}

func TestSortPriceDescending(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Cheap", "X", 1, "08:00", 100, 3),
		makeTrip("Dear", "X", 1, "08:00", 300, 3),
	}

	SortTrips(trips, utils.SortPriceDesc)
	assertOrigins(t, trips, "Dear", "Cheap")
}

func TestSortDeparture(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Noon", "X", 1, "12:00", 100, 3),
		makeTrip("Dawn", "X", 1, "06:15", 100, 3),
		makeTrip("Night", "X", 1, "22:40", 100, 3),
	}

	SortTrips(trips, utils.SortDeparture)
	assertOrigins(t, trips, "Dawn", "Noon", "Night")
}

func TestSortRatingDescending(t *testing.T) {
	trips := []*models.Trip{
		withRating(makeTrip("Low", "X", 1, "08:00", 100, 3), 3.5),
		withRating(makeTrip("High", "X", 1, "08:00", 100, 3), 4.9),
		withRating(makeTrip("Mid", "X", 1, "08:00", 100, 3), 4.2),
	}

	SortTrips(trips, utils.SortRating)
	assertOrigins(t, trips, "High", "Mid", "Low")
}

func TestSortRatingKeepsOrderWithoutDriverData(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("First", "X", 1, "08:00", 100, 3),
		makeTrip("Second", "X", 1, "08:00", 100, 3),
		makeTrip("Third", "X", 1, "08:00", 100, 3),
	}

	SortTrips(trips, utils.SortRating)
	assertOrigins(t, trips, "First", "Second", "Third")
}

func TestSortRecommendedWeighsRatingOverPrice(t *testing.T) {
	// A one-point rating edge (worth 2.0) beats a $3 price edge (worth 1.5).
	trips := []*models.Trip{
		withRating(makeTrip("Cheaper", "X", 1, "08:00", 100, 3), 3.8),
		withRating(makeTrip("Better", "X", 1, "08:00", 103, 3), 4.8),
	}

	SortTrips(trips, utils.SortRecommended)
	assertOrigins(t, trips, "Better", "Cheaper")
}

func TestSortRecommendedPriceBreaksSmallRatingGap(t *testing.T) {
	// A 0.1 rating edge (worth 0.2) loses to a $10 price edge (worth 5.0).
	trips := []*models.Trip{
		withRating(makeTrip("Pricier", "X", 1, "08:00", 110, 3), 4.6),
		withRating(makeTrip("Cheaper", "X", 1, "08:00", 100, 3), 4.5),
	}

	SortTrips(trips, utils.SortRecommended)
	assertOrigins(t, trips, "Cheaper", "Pricier")
}

func TestSortRecommendedFallsBackToPriceWithoutDriverData(t *testing.T) {
	trips := []*models.Trip{
		withRating(makeTrip("Rated", "X", 1, "08:00", 200, 3), 5.0),
		makeTrip("Unrated", "X", 1, "08:00", 100, 3),
	}

	SortTrips(trips, utils.SortRecommended)
	assertOrigins(t, trips, "Unrated", "Rated")
}

func TestSortUnknownNameUsesRecommended(t *testing.T) {
	trips := []*models.Trip{
		withRating(makeTrip("Worse", "X", 1, "08:00", 100, 3), 3.0),
		withRating(makeTrip("Better", "X", 1, "08:00", 100, 3), 5.0),
	}

	SortTrips(trips, "definitely_not_a_sort")
	assertOrigins(t, trips, "Better", "Worse")
}

func TestSortTiesKeepInputOrder(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("First", "X", 1, "08:00", 100, 3),
		makeTrip("Second", "X", 1, "08:00", 100, 3),
		makeTrip("Third", "X", 1, "08:00", 100, 3),
	}

	SortTrips(trips, utils.SortPriceAsc)
	assertOrigins(t, trips, "First", "Second", "Third")
}

func TestSearchTripsEmptyResultIsNotAnError(t *testing.T) {
	trips := []*models.Trip{
		makeTrip("Only", "X", 1, "08:00", 100, 3),
	}

	got := SearchTrips(trips, &SearchCriteria{Origin: "nowhere"}, searchNow)
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no trips, got %v", origins(got))
	}
}
