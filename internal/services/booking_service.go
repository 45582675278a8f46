package services

import (
	"context"
	"errors"
	"fmt"
	"tripshare/internal/config"
	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"
	"tripshare/pkg/observability"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	// Passenger flow
	SubmitBooking(ctx context.Context, userID primitive.ObjectID, request *BookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID primitive.ObjectID) error
	GetBooking(ctx context.Context, userID, bookingID primitive.ObjectID) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	// Driver flow
	GetTripBookings(ctx context.Context, driverID, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	AcceptBooking(ctx context.Context, driverID, bookingID primitive.ObjectID) error
	RejectBooking(ctx context.Context, driverID, bookingID primitive.ObjectID) error
}

type BookingRequest struct {
	TripID  string `json:"trip_id" validate:"required"`
	Seats   int    `json:"seats" validate:"required,min=1"`
	Message string `json:"message" validate:"max=500"`
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	tripRepo    interfaces.TripRepository
	cfg         *config.BookingConfig
	logger      *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	tripRepo interfaces.TripRepository,
	cfg *config.BookingConfig,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// SubmitBooking runs the submission pipeline: validate the request
// against the trip's current state, persist the pending booking, then
// decrement the seat ledger. The decrement is deliberately second and
// deliberately non-fatal; once the booking record exists the passenger
// has booked, and a ledger hiccup is repaired out of band rather than
// surfaced as a failure.
func (s *bookingService) SubmitBooking(ctx context.Context, userID primitive.ObjectID, request *BookingRequest) (*models.Booking, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	tripID, err := primitive.ObjectIDFromHex(request.TripID)
	if err != nil {
		return nil, NewValidationError("trip_id", "must be a valid trip id")
	}

	if request.Seats < 1 {
		return nil, NewValidationError("seats", "must book at least one seat")
	}
	if len(request.Message) > utils.MaxMessageLength {
		return nil, NewValidationError("message", fmt.Sprintf("at most %d characters", utils.MaxMessageLength))
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if trip.Status != models.TripStatusPublished {
		return nil, NewValidationError("trip_id", "trip is not open for booking")
	}
	if trip.DriverID == userID {
		return nil, NewValidationError("trip_id", "cannot book your own trip")
	}
	if request.Seats > trip.AvailableSeats {
		return nil, NewValidationError("seats", utils.ErrNotEnoughSeats)
	}

	booking := &models.Booking{
		TripID:  tripID,
		UserID:  userID,
		Seats:   request.Seats,
		Message: request.Message, // empty string when absent, never null
		Status:  models.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.WithError(err).WithTripID(tripID).Error("Booking write rejected")
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	s.decrementSeats(ctx, tripID, request.Seats)

	observability.BookingsTotal.Inc()
	s.logger.LogBookingEvent(booking.ID, tripID, "booking_submitted", request.Seats)

	return booking, nil
}

// decrementSeats applies the configured ledger mode. In atomic mode a
// losing race is logged, not returned; the booking already stands.
func (s *bookingService) decrementSeats(ctx context.Context, tripID primitive.ObjectID, seats int) {
	var err error
	if s.cfg != nil && s.cfg.AtomicSeatDecrement {
		err = s.tripRepo.DecrementSeatsAtomic(ctx, tripID, seats)
	} else {
		err = s.tripRepo.DecrementSeatsFloored(ctx, tripID, seats)
	}

	if err != nil {
		observability.SeatDecrementFailures.Inc()
		s.logger.WithError(err).
			WithTripID(tripID).
			WithField("seats", seats).
			Warn("Seat decrement failed after booking write")
	}
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if booking.UserID != userID {
		return ErrForbidden
	}
	if !booking.Status.CanTransitionTo(models.BookingStatusCanceled) {
		return NewValidationError("status", fmt.Sprintf("cannot cancel a %s booking", booking.Status))
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, models.BookingStatusCanceled); err != nil {
		return err
	}

	// The ledger is one-way: seats taken by a booking are not put back
	// here. Reconciliation is an operator concern.
	s.logger.LogBookingEvent(bookingID, booking.TripID, "booking_canceled", booking.Seats)

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID primitive.ObjectID) (*models.Booking, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if booking.UserID != userID {
		// The trip's driver may also read bookings against their trip.
		trip, tripErr := s.tripRepo.GetByID(ctx, booking.TripID)
		if tripErr != nil || trip.DriverID != userID {
			return nil, ErrForbidden
		}
	}

	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	if userID.IsZero() {
		return nil, 0, ErrUnauthenticated
	}

	bookings, total, err := s.bookingRepo.GetByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return bookings, total, nil
}

func (s *bookingService) GetTripBookings(ctx context.Context, driverID, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	if driverID.IsZero() {
		return nil, 0, ErrUnauthenticated
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if trip.DriverID != driverID {
		return nil, 0, ErrForbidden
	}

	bookings, total, err := s.bookingRepo.GetByTrip(ctx, tripID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return bookings, total, nil
}

func (s *bookingService) AcceptBooking(ctx context.Context, driverID, bookingID primitive.ObjectID) error {
	return s.resolveBooking(ctx, driverID, bookingID, models.BookingStatusAccepted)
}

func (s *bookingService) RejectBooking(ctx context.Context, driverID, bookingID primitive.ObjectID) error {
	return s.resolveBooking(ctx, driverID, bookingID, models.BookingStatusRejected)
}

func (s *bookingService) resolveBooking(ctx context.Context, driverID, bookingID primitive.ObjectID, status models.BookingStatus) error {
	if driverID.IsZero() {
		return ErrUnauthenticated
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	trip, err := s.tripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if trip.DriverID != driverID {
		return ErrForbidden
	}

	if !booking.Status.CanTransitionTo(status) {
		return NewValidationError("status", fmt.Sprintf("cannot move a %s booking to %s", booking.Status, status))
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return err
	}

	s.logger.LogBookingEvent(bookingID, booking.TripID, "booking_"+string(status), booking.Seats)

	return nil
}
