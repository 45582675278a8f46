package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"
	"tripshare/pkg/maps"
	"tripshare/pkg/observability"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fallbackScanLimit bounds the in-memory pass when the exact store query
// finds nothing and substring matching takes over.
const fallbackScanLimit = 500

type TripService interface {
	// Search
	Search(ctx context.Context, criteria *SearchCriteria, params *utils.PaginationParams) (*SearchResult, error)

	// Reads
	GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	GetRelatedTrips(ctx context.Context, id primitive.ObjectID) ([]*models.Trip, error)
	GetTripsByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetPopularCities(ctx context.Context) ([]*models.CityCount, error)

	// Writes
	CreateTrip(ctx context.Context, driverID primitive.ObjectID, request *CreateTripRequest) (*models.Trip, error)
	UpdateTrip(ctx context.Context, driverID, tripID primitive.ObjectID, request *UpdateTripRequest) error
	CancelTrip(ctx context.Context, driverID, tripID primitive.ObjectID) error
}

type SearchResult struct {
	Trips []*models.Trip        `json:"trips"`
	Total int64                 `json:"total"`
	Meta  *utils.PaginationMeta `json:"meta"`
}

type CreateTripRequest struct {
	Origin        string        `json:"origin" validate:"required,min=2"`
	Destination   string        `json:"destination" validate:"required,min=2"`
	Date          string        `json:"date" validate:"required"`           // YYYY-MM-DD
	DepartureTime string        `json:"departure_time" validate:"required"` // HH:MM
	ArrivalTime   string        `json:"arrival_time"`
	Price         float64       `json:"price" validate:"required,gt=0"`
	Currency      string        `json:"currency"`
	Seats         int           `json:"seats" validate:"required,min=1,max=8"`
	MeetingPoint  string        `json:"meeting_point"`
	DropOffPoint  string        `json:"drop_off_point"`
	Stops         []models.Stop `json:"stops"`
	Features      []string      `json:"features"`
	Notes         string        `json:"notes"`
}

// UpdateTripRequest carries the driver-editable subset of a trip. Route,
// ownership and status never change through this path; nil fields are
// left untouched.
type UpdateTripRequest struct {
	Date          *string       `json:"date,omitempty"`
	DepartureTime *string       `json:"departure_time,omitempty"`
	ArrivalTime   *string       `json:"arrival_time,omitempty"`
	Price         *float64      `json:"price,omitempty"`
	Seats         *int          `json:"seats,omitempty"`
	MeetingPoint  *string       `json:"meeting_point,omitempty"`
	DropOffPoint  *string       `json:"drop_off_point,omitempty"`
	Stops         []models.Stop `json:"stops,omitempty"`
	Features      []string      `json:"features,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
}

type tripService struct {
	tripRepo     interfaces.TripRepository
	userRepo     interfaces.UserRepository
	cache        CacheService
	mapsProvider maps.MapsProvider
	logger       *logger.Logger
}

func NewTripService(
	tripRepo interfaces.TripRepository,
	userRepo interfaces.UserRepository,
	cache CacheService,
	mapsProvider maps.MapsProvider,
	logger *logger.Logger,
) TripService {
	return &tripService{
		tripRepo:     tripRepo,
		userRepo:     userRepo,
		cache:        cache,
		mapsProvider: mapsProvider,
		logger:       logger,
	}
}

// Search resolves criteria in two passes. The store pass uses exact
// origin and destination matches, which is what the indexes support. If
// that pass finds nothing while a place filter was given, a bounded scan
// of upcoming trips is filtered in memory with case-insensitive
// substring semantics, so "buenos" still finds "Buenos Aires".
//
// An unreachable store is an error; a reachable store with no matching
// trips is an empty result.
func (s *tripService) Search(ctx context.Context, criteria *SearchCriteria, params *utils.PaginationParams) (*SearchResult, error) {
	now := time.Now()
	observability.SearchesTotal.Inc()

	filter := storeFilter(criteria, now)
	trips, total, err := s.tripRepo.Search(ctx, filter, params)
	if err != nil {
		s.logger.WithError(err).Error("Trip search query failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if len(trips) == 0 && (criteria.Origin != "" || criteria.Destination != "") {
		trips, err = s.substringFallback(ctx, criteria, now)
		if err != nil {
			return nil, err
		}
		total = int64(len(trips))
	}

	s.attachDriverData(ctx, trips)

	// Rating-dependent criteria and composite sorts need the driver
	// snapshots, so they run after attachment.
	trips = FilterTrips(trips, criteria, now)
	SortTrips(trips, criteria.SortBy)

	if criteria.Origin != "" {
		if err := s.cache.BumpRouteCount(ctx, criteria.Origin); err != nil {
			s.logger.WithError(err).Debug("Failed to bump route counter")
		}
	}

	return &SearchResult{
		Trips: trips,
		Total: total,
		Meta:  utils.CreatePaginationMeta(params, total),
	}, nil
}

func (s *tripService) substringFallback(ctx context.Context, criteria *SearchCriteria, now time.Time) ([]*models.Trip, error) {
	trips, err := s.tripRepo.GetUpcoming(ctx, fallbackScanLimit)
	if err != nil {
		s.logger.WithError(err).Error("Trip fallback scan failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return FilterTrips(trips, criteria, now), nil
}

// storeFilter keeps only the criteria the document query can express.
func storeFilter(criteria *SearchCriteria, now time.Time) *interfaces.TripFilter {
	filter := &interfaces.TripFilter{
		Origin:           criteria.Origin,
		Destination:      criteria.Destination,
		MinPrice:         criteria.MinPrice,
		MaxPrice:         criteria.MaxPrice,
		MinDepartureTime: criteria.MinDepartureTime,
		MaxDepartureTime: criteria.MaxDepartureTime,
		MinSeats:         criteria.MinSeats,
		NotBefore:        utils.StartOfDay(now),
	}

	if criteria.Date != "" {
		if date, err := utils.ParseDate(criteria.Date); err == nil {
			filter.Date = &date
		}
	}

	return filter
}

// attachDriverData denormalizes driver display info onto each trip.
// Missing drivers are tolerated: the trip ships without a snapshot and
// rating-based behavior degrades as documented on SearchCriteria.
func (s *tripService) attachDriverData(ctx context.Context, trips []*models.Trip) {
	snapshots := make(map[primitive.ObjectID]*models.DriverSnapshot)

	for _, trip := range trips {
		if trip.Driver != nil {
			continue
		}

		if snapshot, ok := snapshots[trip.DriverID]; ok {
			trip.Driver = snapshot
			continue
		}

		driver, err := s.userRepo.GetByID(ctx, trip.DriverID)
		if err != nil {
			s.logger.WithError(err).
				WithField("driver_id", trip.DriverID.Hex()).
				Debug("Driver snapshot unavailable")
			snapshots[trip.DriverID] = nil
			continue
		}

		snapshot := driver.DriverSnapshot()
		snapshots[trip.DriverID] = snapshot
		trip.Driver = snapshot
	}
}

func (s *tripService) GetTrip(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.attachDriverData(ctx, []*models.Trip{trip})

	return trip, nil
}

func (s *tripService) GetRelatedTrips(ctx context.Context, id primitive.ObjectID) ([]*models.Trip, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.tripRepo.GetRelated(ctx, trip, utils.RelatedTripLimit)
	if err != nil {
		s.logger.WithError(err).Warn("Related trips lookup failed")
		return []*models.Trip{}, nil
	}

	s.attachDriverData(ctx, related)

	return related, nil
}

func (s *tripService) GetTripsByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	trips, total, err := s.tripRepo.GetByDriver(ctx, driverID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.attachDriverData(ctx, trips)

	return trips, total, nil
}

func (s *tripService) GetPopularCities(ctx context.Context) ([]*models.CityCount, error) {
	var cached []*models.CityCount
	if err := s.cache.Get(ctx, utils.CachePopularCitiesKey+":agg", &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	cities, err := s.tripRepo.GetPopularCities(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.cache.Set(ctx, utils.CachePopularCitiesKey+":agg", cities, utils.PopularCitiesCacheTTL); err != nil {
		s.logger.WithError(err).Debug("Failed to cache popular cities")
	}

	return cities, nil
}

func (s *tripService) CreateTrip(ctx context.Context, driverID primitive.ObjectID, request *CreateTripRequest) (*models.Trip, error) {
	date, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, NewValidationError("date", "must be a valid YYYY-MM-DD date")
	}
	if utils.DateBefore(date, time.Now()) {
		return nil, NewValidationError("date", "must not be in the past")
	}
	if !utils.IsValidClock(request.DepartureTime) {
		return nil, NewValidationError("departure_time", "must be a zero-padded HH:MM time")
	}
	if request.ArrivalTime != "" && !utils.IsValidClock(request.ArrivalTime) {
		return nil, NewValidationError("arrival_time", "must be a zero-padded HH:MM time")
	}
	if request.Seats < 1 || request.Seats > utils.MaxTripSeats {
		return nil, NewValidationError("seats", fmt.Sprintf("must be between 1 and %d", utils.MaxTripSeats))
	}
	if len(request.Stops) > utils.MaxTripStops {
		return nil, NewValidationError("stops", fmt.Sprintf("at most %d stops allowed", utils.MaxTripStops))
	}

	currency := request.Currency
	if currency == "" {
		currency = utils.DefaultCurrency
	}

	trip := &models.Trip{
		DriverID:       driverID,
		Origin:         utils.SanitizeString(request.Origin),
		Destination:    utils.SanitizeString(request.Destination),
		Date:           utils.StartOfDay(date),
		DepartureTime:  request.DepartureTime,
		ArrivalTime:    request.ArrivalTime,
		Duration:       utils.TripDuration(request.DepartureTime, request.ArrivalTime),
		Price:          request.Price,
		Currency:       currency,
		AvailableSeats: request.Seats,
		MeetingPoint:   request.MeetingPoint,
		DropOffPoint:   request.DropOffPoint,
		Stops:          request.Stops,
		Features:       request.Features,
		Notes:          utils.SanitizeString(request.Notes),
		Status:         models.TripStatusPublished,
	}

	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if driver.Vehicle != nil {
		trip.Vehicle = *driver.Vehicle
	}

	s.geocodeEndpoints(ctx, trip)

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	observability.TripsPublished.Inc()
	s.logger.WithUserID(driverID).LogTripEvent(trip.ID, "trip_published", map[string]interface{}{
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"date":        utils.FormatDate(trip.Date),
		"seats":       trip.AvailableSeats,
	})

	return trip, nil
}

// geocodeEndpoints resolves city names to coordinates. Geocoding is a
// nicety: failures are logged and the trip is saved without points.
func (s *tripService) geocodeEndpoints(ctx context.Context, trip *models.Trip) {
	if s.mapsProvider == nil {
		return
	}

	if point := s.geocodeCity(ctx, trip.Origin); point != nil {
		trip.OriginPoint = point
	}
	if point := s.geocodeCity(ctx, trip.Destination); point != nil {
		trip.DestinationPoint = point
	}
}

func (s *tripService) geocodeCity(ctx context.Context, city string) *models.GeoPoint {
	resp, err := s.mapsProvider.Geocode(ctx, city)
	if err != nil || len(resp.Results) == 0 {
		s.logger.WithField("city", city).Debug("Geocoding unavailable")
		return nil
	}

	coords := resp.Results[0].Coordinates
	return models.NewGeoPoint(coords.Latitude, coords.Longitude)
}

func (s *tripService) UpdateTrip(ctx context.Context, driverID, tripID primitive.ObjectID, request *UpdateTripRequest) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if trip.DriverID != driverID {
		return ErrForbidden
	}

	updates, err := tripUpdates(trip, request)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	return s.tripRepo.Update(ctx, tripID, updates)
}

// tripUpdates turns the editable fields into a store update, re-running
// the same checks trip creation applies. Everything outside this
// whitelist stays as it was written at publish time.
func tripUpdates(trip *models.Trip, request *UpdateTripRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	departure := trip.DepartureTime
	arrival := trip.ArrivalTime

	if request.Date != nil {
		date, err := utils.ParseDate(*request.Date)
		if err != nil {
			return nil, NewValidationError("date", "must be a valid YYYY-MM-DD date")
		}
		if utils.DateBefore(date, time.Now()) {
			return nil, NewValidationError("date", "must not be in the past")
		}
		updates["date"] = utils.StartOfDay(date)
	}

	if request.DepartureTime != nil {
		if !utils.IsValidClock(*request.DepartureTime) {
			return nil, NewValidationError("departure_time", "must be a zero-padded HH:MM time")
		}
		departure = *request.DepartureTime
		updates["departure_time"] = departure
	}

	if request.ArrivalTime != nil {
		if *request.ArrivalTime != "" && !utils.IsValidClock(*request.ArrivalTime) {
			return nil, NewValidationError("arrival_time", "must be a zero-padded HH:MM time")
		}
		arrival = *request.ArrivalTime
		updates["arrival_time"] = arrival
	}

	if request.DepartureTime != nil || request.ArrivalTime != nil {
		updates["duration"] = utils.TripDuration(departure, arrival)
	}

	if request.Price != nil {
		if *request.Price <= 0 {
			return nil, NewValidationError("price", "must be greater than zero")
		}
		updates["price"] = *request.Price
	}

	if request.Seats != nil {
		if *request.Seats < 1 || *request.Seats > utils.MaxTripSeats {
			return nil, NewValidationError("seats", fmt.Sprintf("must be between 1 and %d", utils.MaxTripSeats))
		}
		updates["available_seats"] = *request.Seats
	}

	if request.MeetingPoint != nil {
		updates["meeting_point"] = utils.SanitizeString(*request.MeetingPoint)
	}

	if request.DropOffPoint != nil {
		updates["drop_off_point"] = utils.SanitizeString(*request.DropOffPoint)
	}

	if request.Stops != nil {
		if len(request.Stops) > utils.MaxTripStops {
			return nil, NewValidationError("stops", fmt.Sprintf("at most %d stops allowed", utils.MaxTripStops))
		}
		for _, stop := range request.Stops {
			if stop.Location == "" || !utils.IsValidClock(stop.Time) {
				return nil, NewValidationError("stops", "each stop needs a location and an HH:MM time")
			}
		}
		updates["stops"] = request.Stops
	}

	if request.Features != nil {
		if len(request.Features) > utils.MaxFeatureTags {
			return nil, NewValidationError("features", fmt.Sprintf("at most %d feature tags allowed", utils.MaxFeatureTags))
		}
		updates["features"] = request.Features
	}

	if request.Notes != nil {
		if len(*request.Notes) > utils.MaxNotesLength {
			return nil, NewValidationError("notes", "notes are too long")
		}
		updates["notes"] = utils.SanitizeString(*request.Notes)
	}

	return updates, nil
}

func (s *tripService) CancelTrip(ctx context.Context, driverID, tripID primitive.ObjectID) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if trip.DriverID != driverID {
		return ErrForbidden
	}

	if err := s.tripRepo.UpdateStatus(ctx, tripID, models.TripStatusCancelled); err != nil {
		return err
	}

	s.logger.WithUserID(driverID).LogTripEvent(tripID, "trip_cancelled", nil)

	return nil
}
