package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"tripshare/internal/config"
	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "json"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	log.SetOutput(io.Discard)
	return log
}

// fakeTripRepo overrides only the methods a test exercises; anything else
// panics through the embedded nil interface, which is the point.
type fakeTripRepo struct {
	interfaces.TripRepository

	trip *models.Trip

	getErr         error
	flooredErr     error
	atomicErr      error
	flooredCalls   int
	atomicCalls    int
	decrementSeats int

	updateCalls   int
	updatedFields map[string]interface{}
}

func (f *fakeTripRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.trip == nil {
		return nil, ErrNotFound
	}
	return f.trip, nil
}

func (f *fakeTripRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.updateCalls++
	f.updatedFields = updates
	return nil
}

func (f *fakeTripRepo) DecrementSeatsFloored(ctx context.Context, id primitive.ObjectID, seats int) error {
	f.flooredCalls++
	f.decrementSeats = seats
	return f.flooredErr
}

func (f *fakeTripRepo) DecrementSeatsAtomic(ctx context.Context, id primitive.ObjectID, seats int) error {
	f.atomicCalls++
	f.decrementSeats = seats
	return f.atomicErr
}

type fakeBookingRepo struct {
	interfaces.BookingRepository

	booking *models.Booking

	createErr     error
	createCalls   int
	created       *models.Booking
	statusUpdates []models.BookingStatus
	updateErr     error
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	booking.ID = primitive.NewObjectID()
	f.created = booking
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if f.booking == nil {
		return nil, ErrNotFound
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func newBookingFixture(t *testing.T, trips *fakeTripRepo, bookings *fakeBookingRepo, cfg *config.BookingConfig) BookingService {
	t.Helper()
	if cfg == nil {
		cfg = &config.BookingConfig{}
	}
	return NewBookingService(bookings, trips, cfg, testLogger(t))
}

func publishedTrip(driverID primitive.ObjectID, seats int) *models.Trip {
	return &models.Trip{
		ID:             primitive.NewObjectID(),
		DriverID:       driverID,
		Origin:         "Mendoza",
		Destination:    "San Juan",
		Price:          120,
		AvailableSeats: seats,
		Status:         models.TripStatusPublished,
	}
}

func TestSubmitBookingRequiresAuthentication(t *testing.T) {
	trips := &fakeTripRepo{}
	bookings := &fakeBookingRepo{}
	svc := newBookingFixture(t, trips, bookings, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NilObjectID, &BookingRequest{
		TripID: primitive.NewObjectID().Hex(),
		Seats:  1,
	})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
	if bookings.createCalls != 0 {
		t.Fatal("booking write attempted for anonymous request")
	}
}

func TestSubmitBookingRejectsTooManySeats(t *testing.T) {
	trips := &fakeTripRepo{trip: publishedTrip(primitive.NewObjectID(), 2)}
	bookings := &fakeBookingRepo{}
	svc := newBookingFixture(t, trips, bookings, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  3,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Field != "seats" {
		t.Fatalf("validation field = %q, want seats", verr.Field)
	}
	if bookings.createCalls != 0 {
		t.Fatal("booking written despite seat shortfall")
	}
}

func TestSubmitBookingRejectsOwnTrip(t *testing.T) {
	driverID := primitive.NewObjectID()
	trips := &fakeTripRepo{trip: publishedTrip(driverID, 3)}
	svc := newBookingFixture(t, trips, &fakeBookingRepo{}, nil)

	_, err := svc.SubmitBooking(context.Background(), driverID, &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  1,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestSubmitBookingRejectsClosedTrip(t *testing.T) {
	trip := publishedTrip(primitive.NewObjectID(), 3)
	trip.Status = models.TripStatusCompleted
	svc := newBookingFixture(t, &fakeTripRepo{trip: trip}, &fakeBookingRepo{}, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trip.ID.Hex(),
		Seats:  1,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestSubmitBookingTripLookupOutage(t *testing.T) {
	trips := &fakeTripRepo{getErr: errors.New("connection reset")}
	svc := newBookingFixture(t, trips, &fakeBookingRepo{}, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: primitive.NewObjectID().Hex(),
		Seats:  1,
	})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}
}

func TestSubmitBookingWriteFailure(t *testing.T) {
	trips := &fakeTripRepo{trip: publishedTrip(primitive.NewObjectID(), 3)}
	bookings := &fakeBookingRepo{createErr: errors.New("write concern failed")}
	svc := newBookingFixture(t, trips, bookings, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  1,
	})
	if !errors.Is(err, ErrBookingFailed) {
		t.Fatalf("got %v, want ErrBookingFailed", err)
	}
	if trips.flooredCalls != 0 || trips.atomicCalls != 0 {
		t.Fatal("seats decremented for a booking that was never written")
	}
}

func TestSubmitBookingSurvivesDecrementFailure(t *testing.T) {
	trips := &fakeTripRepo{
		trip:       publishedTrip(primitive.NewObjectID(), 3),
		flooredErr: errors.New("ledger write timed out"),
	}
	bookings := &fakeBookingRepo{}
	svc := newBookingFixture(t, trips, bookings, nil)

	booking, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  2,
	})
	if err != nil {
		t.Fatalf("booking failed on a ledger error: %v", err)
	}
	if booking.Status != models.BookingStatusPending {
		t.Fatalf("status = %q, want pending", booking.Status)
	}
	if trips.flooredCalls != 1 {
		t.Fatalf("floored decrement calls = %d, want 1", trips.flooredCalls)
	}
}

func TestSubmitBookingDefaultsToFlooredDecrement(t *testing.T) {
	trips := &fakeTripRepo{trip: publishedTrip(primitive.NewObjectID(), 4)}
	svc := newBookingFixture(t, trips, &fakeBookingRepo{}, nil)

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  2,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if trips.flooredCalls != 1 || trips.atomicCalls != 0 {
		t.Fatalf("floored=%d atomic=%d, want 1/0", trips.flooredCalls, trips.atomicCalls)
	}
	if trips.decrementSeats != 2 {
		t.Fatalf("decremented %d seats, want 2", trips.decrementSeats)
	}
}

func TestSubmitBookingAtomicDecrementWhenConfigured(t *testing.T) {
	trips := &fakeTripRepo{trip: publishedTrip(primitive.NewObjectID(), 4)}
	svc := newBookingFixture(t, trips, &fakeBookingRepo{}, &config.BookingConfig{AtomicSeatDecrement: true})

	_, err := svc.SubmitBooking(context.Background(), primitive.NewObjectID(), &BookingRequest{
		TripID: trips.trip.ID.Hex(),
		Seats:  1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if trips.atomicCalls != 1 || trips.flooredCalls != 0 {
		t.Fatalf("floored=%d atomic=%d, want 0/1", trips.flooredCalls, trips.atomicCalls)
	}
}

func TestCancelBookingDoesNotRestoreSeats(t *testing.T) {
	userID := primitive.NewObjectID()
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: primitive.NewObjectID(),
		UserID: userID,
		Seats:  2,
		Status: models.BookingStatusPending,
	}}
	// The bare trip repo panics on any seat mutation, so a restore
	// attempt fails this test loudly.
	trips := &fakeTripRepo{}
	svc := newBookingFixture(t, trips, bookings, nil)

	if err := svc.CancelBooking(context.Background(), userID, bookings.booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(bookings.statusUpdates) != 1 || bookings.statusUpdates[0] != models.BookingStatusCanceled {
		t.Fatalf("status updates = %v, want [canceled]", bookings.statusUpdates)
	}
	if trips.flooredCalls != 0 || trips.atomicCalls != 0 {
		t.Fatal("seat ledger touched on cancel")
	}
}

func TestCancelBookingForbiddenForStranger(t *testing.T) {
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Status: models.BookingStatusPending,
	}}
	svc := newBookingFixture(t, &fakeTripRepo{}, bookings, nil)

	err := svc.CancelBooking(context.Background(), primitive.NewObjectID(), bookings.booking.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestCancelBookingRejectsTerminalStatus(t *testing.T) {
	userID := primitive.NewObjectID()
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Status: models.BookingStatusRejected,
	}}
	svc := newBookingFixture(t, &fakeTripRepo{}, bookings, nil)

	err := svc.CancelBooking(context.Background(), userID, bookings.booking.ID)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(bookings.statusUpdates) != 0 {
		t.Fatal("terminal booking was mutated")
	}
}

func TestAcceptBookingOnlyByTripDriver(t *testing.T) {
	trip := publishedTrip(primitive.NewObjectID(), 3)
	trips := &fakeTripRepo{trip: trip}
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: trip.ID,
		UserID: primitive.NewObjectID(),
		Status: models.BookingStatusPending,
	}}
	svc := newBookingFixture(t, trips, bookings, nil)

	err := svc.AcceptBooking(context.Background(), primitive.NewObjectID(), bookings.booking.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestAcceptBookingMarksAccepted(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := publishedTrip(driverID, 3)
	trips := &fakeTripRepo{trip: trip}
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: trip.ID,
		UserID: primitive.NewObjectID(),
		Status: models.BookingStatusPending,
	}}
	svc := newBookingFixture(t, trips, bookings, nil)

	if err := svc.AcceptBooking(context.Background(), driverID, bookings.booking.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(bookings.statusUpdates) != 1 || bookings.statusUpdates[0] != models.BookingStatusAccepted {
		t.Fatalf("status updates = %v, want [accepted]", bookings.statusUpdates)
	}
}

func TestRejectBookingDoesNotRestoreSeats(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := publishedTrip(driverID, 3)
	trips := &fakeTripRepo{trip: trip}
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: trip.ID,
		UserID: primitive.NewObjectID(),
		Seats:  2,
		Status: models.BookingStatusPending,
	}}
	svc := newBookingFixture(t, trips, bookings, nil)

	if err := svc.RejectBooking(context.Background(), driverID, bookings.booking.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if len(bookings.statusUpdates) != 1 || bookings.statusUpdates[0] != models.BookingStatusRejected {
		t.Fatalf("status updates = %v, want [rejected]", bookings.statusUpdates)
	}
	if trips.flooredCalls != 0 || trips.atomicCalls != 0 {
		t.Fatal("seat ledger touched on reject")
	}
}

func TestResolveBookingRejectsDoubleAccept(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := publishedTrip(driverID, 3)
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: trip.ID,
		UserID: primitive.NewObjectID(),
		Status: models.BookingStatusAccepted,
	}}
	svc := newBookingFixture(t, &fakeTripRepo{trip: trip}, bookings, nil)

	err := svc.AcceptBooking(context.Background(), driverID, bookings.booking.ID)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestGetBookingReadableByTripDriver(t *testing.T) {
	driverID := primitive.NewObjectID()
	trip := publishedTrip(driverID, 3)
	bookings := &fakeBookingRepo{booking: &models.Booking{
		ID:     primitive.NewObjectID(),
		TripID: trip.ID,
		UserID: primitive.NewObjectID(),
		Status: models.BookingStatusPending,
	}}
	svc := newBookingFixture(t, &fakeTripRepo{trip: trip}, bookings, nil)

	if _, err := svc.GetBooking(context.Background(), driverID, bookings.booking.ID); err != nil {
		t.Fatalf("driver read: %v", err)
	}

	_, err := svc.GetBooking(context.Background(), primitive.NewObjectID(), bookings.booking.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger read: got %v, want ErrForbidden", err)
	}
}
