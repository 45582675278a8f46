package services

import (
	"sort"
	"strings"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/utils"
)

// SearchCriteria is the full set of trip search knobs. Zero values mean
// "not constrained": empty strings, nil pointers and zero counts all
// leave their dimension unfiltered.
type SearchCriteria struct {
	Origin           string   `json:"origin" form:"origin"`
	Destination      string   `json:"destination" form:"destination"`
	Date             string   `json:"date" form:"date"` // YYYY-MM-DD
	MinPrice         *float64 `json:"min_price" form:"min_price"`
	MaxPrice         *float64 `json:"max_price" form:"max_price"`
	MinDepartureTime string   `json:"min_departure_time" form:"min_departure_time"` // HH:MM
	MaxDepartureTime string   `json:"max_departure_time" form:"max_departure_time"` // HH:MM
	MinSeats         int      `json:"min_seats" form:"min_seats"`
	MinRating        *float64 `json:"min_rating" form:"min_rating"`
	Features         []string `json:"features" form:"features"`
	SortBy           string   `json:"sort_by" form:"sort_by"`
}

// FilterTrips applies every criterion in sequence and returns the
// surviving trips in their incoming order. Trips on a calendar date
// before now's date are always dropped, whether or not a date filter was
// asked for. The input slice is never mutated.
func FilterTrips(trips []*models.Trip, criteria *SearchCriteria, now time.Time) []*models.Trip {
	result := make([]*models.Trip, 0, len(trips))

	var searchDate time.Time
	var hasDate bool
	if criteria.Date != "" {
		if parsed, err := utils.ParseDate(criteria.Date); err == nil {
			searchDate = parsed
			hasDate = true
		}
	}

	for _, trip := range trips {
		if utils.DateBefore(trip.Date, now) {
			continue
		}

		if hasDate && !utils.SameDate(trip.Date, searchDate) {
			continue
		}

		if criteria.Origin != "" && !containsFold(trip.Origin, criteria.Origin) {
			continue
		}

		if criteria.Destination != "" && !containsFold(trip.Destination, criteria.Destination) {
			continue
		}

		if criteria.MinPrice != nil && trip.Price < *criteria.MinPrice {
			continue
		}

		if criteria.MaxPrice != nil && trip.Price > *criteria.MaxPrice {
			continue
		}

		// Zero-padded HH:MM strings order the same way lexicographically
		// as the clock times they name.
		if criteria.MinDepartureTime != "" && trip.DepartureTime < criteria.MinDepartureTime {
			continue
		}

		if criteria.MaxDepartureTime != "" && trip.DepartureTime > criteria.MaxDepartureTime {
			continue
		}

		if criteria.MinSeats > 0 && trip.AvailableSeats < criteria.MinSeats {
			continue
		}

		// Trips without driver data pass the rating filter untouched
		// rather than being penalized for a missing snapshot.
		if criteria.MinRating != nil && trip.HasDriverData() && trip.DriverRating() < *criteria.MinRating {
			continue
		}

		if len(criteria.Features) > 0 && !hasAllFeatures(trip, criteria.Features) {
			continue
		}

		result = append(result, trip)
	}

	return result
}

// SortTrips orders trips in place by the named sort. Unknown or empty
// names fall back to the recommended ordering. Ties keep their relative
// input order.
func SortTrips(trips []*models.Trip, sortBy string) {
	switch sortBy {
	case utils.SortPriceAsc:
		sort.SliceStable(trips, func(i, j int) bool {
			return trips[i].Price < trips[j].Price
		})
	case utils.SortPriceDesc:
		sort.SliceStable(trips, func(i, j int) bool {
			return trips[i].Price > trips[j].Price
		})
	case utils.SortDeparture:
		sort.SliceStable(trips, func(i, j int) bool {
			return trips[i].DepartureTime < trips[j].DepartureTime
		})
	case utils.SortRating:
		sort.SliceStable(trips, func(i, j int) bool {
			if !trips[i].HasDriverData() || !trips[j].HasDriverData() {
				return false
			}
			return trips[i].DriverRating() > trips[j].DriverRating()
		})
	default:
		sort.SliceStable(trips, func(i, j int) bool {
			return recommendedBefore(trips[i], trips[j])
		})
	}
}

// SearchTrips is the whole engine: filter, then sort. It never errors;
// an empty result is an ordinary outcome.
func SearchTrips(trips []*models.Trip, criteria *SearchCriteria, now time.Time) []*models.Trip {
	filtered := FilterTrips(trips, criteria, now)
	SortTrips(filtered, criteria.SortBy)
	return filtered
}

// recommendedBefore weighs driver rating twice as heavily as price. When
// either side lacks driver data the comparison degrades to cheapest
// first, so sparse records are ranked rather than excluded.
func recommendedBefore(a, b *models.Trip) bool {
	if !a.HasDriverData() || !b.HasDriverData() {
		return a.Price < b.Price
	}

	score := 2*(b.DriverRating()-a.DriverRating()) + 0.5*(a.Price-b.Price)
	return score < 0
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasAllFeatures(trip *models.Trip, wanted []string) bool {
	for _, want := range wanted {
		found := false
		for _, have := range trip.Features {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
