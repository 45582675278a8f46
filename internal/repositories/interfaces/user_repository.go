package interfaces

import (
	"context"

	"tripshare/internal/models"
	"tripshare/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Identity operations
	GetByAuthUID(ctx context.Context, authUID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	UpdateLastLogout(ctx context.Context, id primitive.ObjectID) error

	// Reputation
	UpdateRating(ctx context.Context, id primitive.ObjectID, rating float64, reviewCount int) error

	// Search and listing
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetTotalCount(ctx context.Context) (int64, error)
}
