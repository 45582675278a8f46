package interfaces

import (
	"context"

	"tripshare/internal/models"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByReviewee(ctx context.Context, revieweeID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetByTrip(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// AverageRating returns the mean rating and total review count for a
	// user, both zero when no reviews exist.
	AverageRating(ctx context.Context, revieweeID primitive.ObjectID) (float64, int, error)
}
