package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type searchTripRepo struct {
	interfaces.TripRepository

	searchTrips   []*models.Trip
	searchErr     error
	upcoming      []*models.Trip
	upcomingCalls int
	created       *models.Trip
}

func (f *searchTripRepo) Search(ctx context.Context, filter *interfaces.TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.searchTrips, int64(len(f.searchTrips)), nil
}

func (f *searchTripRepo) GetUpcoming(ctx context.Context, limit int) ([]*models.Trip, error) {
	f.upcomingCalls++
	return f.upcoming, nil
}

func (f *searchTripRepo) Create(ctx context.Context, trip *models.Trip) error {
	trip.ID = primitive.NewObjectID()
	f.created = trip
	return nil
}

type fakeUserRepo struct {
	interfaces.UserRepository

	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, ErrNotFound
}

type fakeCache struct {
	CacheService

	bumped []string
}

func (f *fakeCache) BumpRouteCount(ctx context.Context, city string) error {
	f.bumped = append(f.bumped, city)
	return nil
}

func newTripFixture(t *testing.T, trips *searchTripRepo, users *fakeUserRepo) TripService {
	t.Helper()
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewTripService(trips, users, &fakeCache{}, nil, testLogger(t))
}

func defaultParams() *utils.PaginationParams {
	return &utils.PaginationParams{Page: 1, PageSize: 20}
}

func TestSearchStoreOutage(t *testing.T) {
	repo := &searchTripRepo{searchErr: errors.New("no reachable servers")}
	svc := newTripFixture(t, repo, nil)

	_, err := svc.Search(context.Background(), &SearchCriteria{}, defaultParams())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	repo := &searchTripRepo{}
	svc := newTripFixture(t, repo, nil)

	result, err := svc.Search(context.Background(), &SearchCriteria{}, defaultParams())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Trips) != 0 || result.Total != 0 {
		t.Fatalf("got %d trips total %d, want none", len(result.Trips), result.Total)
	}
	// Without a place filter there is nothing for the substring pass to
	// loosen, so it must not run.
	if repo.upcomingCalls != 0 {
		t.Fatal("fallback scan ran without a place filter")
	}
}

func TestSearchSubstringFallbackFindsPartialCity(t *testing.T) {
	repo := &searchTripRepo{
		upcoming: []*models.Trip{
			makeTrip("Buenos Aires", "Rosario", 1, "08:00", 100, 3),
			makeTrip("Cordoba", "Salta", 1, "08:00", 100, 3),
		},
	}
	svc := newTripFixture(t, repo, nil)

	result, err := svc.Search(context.Background(), &SearchCriteria{Origin: "buenos"}, defaultParams())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.upcomingCalls != 1 {
		t.Fatalf("fallback scans = %d, want 1", repo.upcomingCalls)
	}
	assertOrigins(t, result.Trips, "Buenos Aires")
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}
}

func TestSearchAttachesDriverSnapshots(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := makeTrip("Mendoza", "San Luis", 1, "08:00", 100, 3)
	trip.DriverID = driverID

	repo := &searchTripRepo{searchTrips: []*models.Trip{trip}}
	users := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{
		driverID: {ID: driverID, Name: "Lucia", Rating: 4.7, ReviewCount: 12},
	}}
	svc := newTripFixture(t, repo, users)

	result, err := svc.Search(context.Background(), &SearchCriteria{}, defaultParams())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Trips) != 1 || result.Trips[0].Driver == nil {
		t.Fatal("driver snapshot not attached")
	}
	if result.Trips[0].Driver.Rating != 4.7 {
		t.Fatalf("rating = %v, want 4.7", result.Trips[0].Driver.Rating)
	}
}

func TestSearchToleratesMissingDriver(t *testing.T) {
	trip := makeTrip("Mendoza", "San Luis", 1, "08:00", 100, 3)
	trip.DriverID = primitive.NewObjectID()

	repo := &searchTripRepo{searchTrips: []*models.Trip{trip}}
	svc := newTripFixture(t, repo, &fakeUserRepo{})

	result, err := svc.Search(context.Background(), &SearchCriteria{}, defaultParams())
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Trips) != 1 {
		t.Fatalf("got %d trips, want the snapshotless one kept", len(result.Trips))
	}
	if result.Trips[0].Driver != nil {
		t.Fatal("expected no driver snapshot")
	}
}

func TestCreateTripRejectsPastDate(t *testing.T) {
	svc := newTripFixture(t, &searchTripRepo{}, nil)

	_, err := svc.CreateTrip(context.Background(), primitive.NewObjectID(), &CreateTripRequest{
		Origin:        "Mendoza",
		Destination:   "San Juan",
		Date:          time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		DepartureTime: "08:00",
		Price:         100,
		Seats:         3,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Field != "date" {
		t.Fatalf("validation field = %q, want date", verr.Field)
	}
}

func TestCreateTripRejectsBadClock(t *testing.T) {
	svc := newTripFixture(t, &searchTripRepo{}, nil)

	_, err := svc.CreateTrip(context.Background(), primitive.NewObjectID(), &CreateTripRequest{
		Origin:        "Mendoza",
		Destination:   "San Juan",
		Date:          time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		DepartureTime: "8am",
		Price:         100,
		Seats:         3,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestCreateTripPublishesWithDriverVehicle(t *testing.T) {
	driverID := primitive.NewObjectID()
	repo := &searchTripRepo{}
	users := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{
		driverID: {
			ID:      driverID,
			Name:    "Marcos",
			Vehicle: &models.VehicleInfo{Brand: "Fiat", Model: "Cronos", Plate: "AB123CD"},
		},
	}}
	svc := newTripFixture(t, repo, users)

	trip, err := svc.CreateTrip(context.Background(), driverID, &CreateTripRequest{
		Origin:        "Mendoza",
		Destination:   "San Juan",
		Date:          time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		DepartureTime: "08:30",
		Price:         150,
		Seats:         3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if trip.Status != models.TripStatusPublished {
		t.Fatalf("status = %q, want published", trip.Status)
	}
	if trip.AvailableSeats != 3 {
		t.Fatalf("seats = %d, want 3", trip.AvailableSeats)
	}
	if trip.Vehicle.Brand != "Fiat" {
		t.Fatalf("vehicle = %+v, want the driver's", trip.Vehicle)
	}
	if repo.created == nil {
		t.Fatal("trip never persisted")
	}
}

func TestUpdateTripRejectsBadSeatCount(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	seats := -2
	err := svc.UpdateTrip(context.Background(), driverID, trips.trip.ID, &UpdateTripRequest{Seats: &seats})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Field != "seats" {
		t.Fatalf("validation field = %q, want seats", verr.Field)
	}
	if trips.updateCalls != 0 {
		t.Fatal("invalid update reached the store")
	}
}

func TestUpdateTripRejectsPastDate(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	err := svc.UpdateTrip(context.Background(), driverID, trips.trip.ID, &UpdateTripRequest{Date: &date})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if trips.updateCalls != 0 {
		t.Fatal("invalid update reached the store")
	}
}

// Updates go through a fixed field list: price and seat changes land
// under their document keys, and nothing else, so ownership and status
// cannot be rewritten through this path.
func TestUpdateTripWritesOnlyEditableFields(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	price := 180.0
	seats := 2
	err := svc.UpdateTrip(context.Background(), driverID, trips.trip.ID, &UpdateTripRequest{
		Price: &price,
		Seats: &seats,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if trips.updateCalls != 1 {
		t.Fatalf("update calls = %d, want 1", trips.updateCalls)
	}

	if got := trips.updatedFields["price"]; got != 180.0 {
		t.Fatalf("price = %v, want 180", got)
	}
	if got := trips.updatedFields["available_seats"]; got != 2 {
		t.Fatalf("available_seats = %v, want 2", got)
	}
	if len(trips.updatedFields) != 2 {
		t.Fatalf("unexpected fields in update: %v", trips.updatedFields)
	}
	for _, field := range []string{"driver_id", "status", "origin", "destination"} {
		if _, ok := trips.updatedFields[field]; ok {
			t.Fatalf("field %q must never be updatable", field)
		}
	}
}

func TestUpdateTripRecomputesDuration(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	departure := "08:00"
	arrival := "10:30"
	err := svc.UpdateTrip(context.Background(), driverID, trips.trip.ID, &UpdateTripRequest{
		DepartureTime: &departure,
		ArrivalTime:   &arrival,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := trips.updatedFields["duration"]; got != "2h 30m" {
		t.Fatalf("duration = %v, want 2h 30m", got)
	}
}

func TestUpdateTripOnlyByOwner(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	price := 180.0
	err := svc.UpdateTrip(context.Background(), primitive.NewObjectID(), trips.trip.ID, &UpdateTripRequest{Price: &price})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if trips.updateCalls != 0 {
		t.Fatal("forbidden update reached the store")
	}
}

func TestCancelTripOnlyByOwner(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := publishedTrip(driverID, 3)
	trips := &fakeTripRepo{trip: trip}
	svc := NewTripService(trips, &fakeUserRepo{}, &fakeCache{}, nil, testLogger(t))

	err := svc.CancelTrip(context.Background(), primitive.NewObjectID(), trip.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}
