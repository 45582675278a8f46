package interfaces

import (
	"context"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripFilter is the store-side slice of the search criteria: the
// predicates a document query can express directly. Substring matching
// and composite ranking stay in the service layer.
type TripFilter struct {
	Origin           string
	Destination      string
	Date             *time.Time
	MinPrice         *float64
	MaxPrice         *float64
	MinDepartureTime string
	MaxDepartureTime string
	MinSeats         int
	NotBefore        time.Time // date floor, normally today at midnight
}

type TripRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Trip, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Search and filtering
	Search(ctx context.Context, filter *TripFilter, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Trip, int64, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Trip, error)
	GetRelated(ctx context.Context, trip *models.Trip, limit int) ([]*models.Trip, error)

	// Seat ledger
	DecrementSeatsFloored(ctx context.Context, id primitive.ObjectID, seats int) error
	DecrementSeatsAtomic(ctx context.Context, id primitive.ObjectID, seats int) error

	// Status operations
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.TripStatus) error

	// Aggregations
	GetPopularCities(ctx context.Context, limit int) ([]*models.CityCount, error)
	CountByDriverAndStatus(ctx context.Context, driverID primitive.ObjectID, status models.TripStatus) (int64, error)
	GetCompletedByDriver(ctx context.Context, driverID primitive.ObjectID, limit int) ([]*models.Trip, error)
	GetDriverRouteCounts(ctx context.Context, driverID primitive.ObjectID, limit int) ([]models.FrequentRoute, error)
	GetTotalCount(ctx context.Context) (int64, error)
}
