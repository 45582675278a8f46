package interfaces

import (
	"context"

	"tripshare/internal/models"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByTripAndUser(ctx context.Context, tripID, userID primitive.ObjectID) (*models.Booking, error)

	// Status operations
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.BookingStatus) error
	CountByStatus(ctx context.Context, tripID primitive.ObjectID, status models.BookingStatus) (int64, error)

	// Aggregations
	SeatsTransportedByDriver(ctx context.Context, driverID primitive.ObjectID) (int64, error)
}
