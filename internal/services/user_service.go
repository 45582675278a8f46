package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"
	"tripshare/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// completedTripScanLimit bounds the kilometer computation; profiles only
// need an estimate, not a full history walk.
const completedTripScanLimit = 200

const frequentRouteLimit = 5

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetPublicProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)
	GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error)
	UploadAvatar(ctx context.Context, userID primitive.ObjectID, reader io.Reader, filename string, size int64) (string, error)

	CreateReview(ctx context.Context, reviewerID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error)
	GetUserReviews(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetTripReviews(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
}

type UpdateProfileRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       *string             `json:"phone,omitempty"`
	Bio         *string             `json:"bio,omitempty" validate:"omitempty,max=500"`
	Preferences []string            `json:"preferences,omitempty"`
	Vehicle     *models.VehicleInfo `json:"vehicle,omitempty"`
}

type CreateReviewRequest struct {
	RevieweeID string  `json:"reviewee_id" validate:"required"`
	TripID     string  `json:"trip_id,omitempty"`
	Rating     float64 `json:"rating" validate:"required,min=1,max=5"`
	Content    string  `json:"content" validate:"max=1000"`
}

type userService struct {
	userRepo    interfaces.UserRepository
	tripRepo    interfaces.TripRepository
	bookingRepo interfaces.BookingRepository
	reviewRepo  interfaces.ReviewRepository
	cache       CacheService
	storage     storage.StorageProvider
	logger      *logger.Logger
}

func NewUserService(
	userRepo interfaces.UserRepository,
	tripRepo interfaces.TripRepository,
	bookingRepo interfaces.BookingRepository,
	reviewRepo interfaces.ReviewRepository,
	cache CacheService,
	storageProvider storage.StorageProvider,
	logger *logger.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		tripRepo:    tripRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		cache:       cache,
		storage:     storageProvider,
		logger:      logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetPublicProfile strips fields other users have no business seeing.
func (s *userService) GetPublicProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	public := *user
	public.Email = ""
	public.Phone = ""
	public.AuthUID = ""
	public.LastLoginAt = nil
	public.LastLogoutAt = nil

	return &public, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	if userID.IsZero() {
		return nil, ErrUnauthenticated
	}

	updates := map[string]interface{}{}
	if request.Name != nil {
		name := utils.SanitizeString(*request.Name)
		if !utils.IsValidName(name) {
			return nil, NewValidationError("name", "name must be between 2 and 100 characters")
		}
		updates["name"] = name
	}
	if request.Phone != nil {
		updates["phone"] = utils.SanitizeString(*request.Phone)
	}
	if request.Bio != nil {
		updates["bio"] = utils.SanitizeString(*request.Bio)
	}
	if request.Preferences != nil {
		updates["preferences"] = request.Preferences
	}
	if request.Vehicle != nil {
		updates["vehicle"] = request.Vehicle
	}

	if len(updates) == 0 {
		return s.userRepo.GetByID(ctx, userID)
	}

	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(userID, "profile_updated", map[string]interface{}{
		"fields": len(updates),
	})

	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	cacheKey := fmt.Sprintf("%s%s", utils.CacheUserStatsPrefix, userID.Hex())

	var cached models.UserStats
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{AverageRating: user.Rating}

	completed, err := s.tripRepo.CountByDriverAndStatus(ctx, userID, models.TripStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	stats.TripsCompleted = completed

	transported, err := s.bookingRepo.SeatsTransportedByDriver(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Passenger count aggregation failed")
	} else {
		stats.PassengersTransported = transported
	}

	routes, err := s.tripRepo.GetDriverRouteCounts(ctx, userID, frequentRouteLimit)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Route count aggregation failed")
	} else {
		stats.FrequentRoutes = routes
	}
	if stats.FrequentRoutes == nil {
		stats.FrequentRoutes = []models.FrequentRoute{}
	}

	stats.KilometersTotal = s.totalKilometers(ctx, userID)

	if err := s.cache.Set(ctx, cacheKey, stats, utils.UserCacheTTL); err != nil {
		s.logger.WithError(err).Debug("User stats cache write failed")
	}

	return stats, nil
}

// totalKilometers sums haversine distances between geocoded endpoints of
// completed trips. Trips without coordinates contribute nothing.
func (s *userService) totalKilometers(ctx context.Context, userID primitive.ObjectID) float64 {
	trips, err := s.tripRepo.GetCompletedByDriver(ctx, userID, completedTripScanLimit)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Completed trip scan failed")
		return 0
	}

	var total float64
	for _, trip := range trips {
		if trip.OriginPoint == nil || trip.DestinationPoint == nil {
			continue
		}
		total += utils.CalculateDistance(
			trip.OriginPoint.Latitude(), trip.OriginPoint.Longitude(),
			trip.DestinationPoint.Latitude(), trip.DestinationPoint.Longitude(),
		)
	}

	return total
}

func (s *userService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, reader io.Reader, filename string, size int64) (string, error) {
	if userID.IsZero() {
		return "", ErrUnauthenticated
	}
	if size > utils.MaxAvatarSize {
		return "", NewValidationError("avatar", "file exceeds the maximum avatar size")
	}
	if !utils.IsValidImageFormat(filename) {
		return "", NewValidationError("avatar", "unsupported image format")
	}

	processed, err := utils.ProcessAvatar(reader, filename)
	if err != nil {
		return "", NewValidationError("avatar", "could not decode image")
	}

	key := fmt.Sprintf("avatars/%s.jpg", userID.Hex())
	response, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(processed),
		ContentType: "image/jpeg",
		Size:        int64(len(processed)),
		ACL:         "public-read",
		Metadata: map[string]string{
			"user_id":     userID.Hex(),
			"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"avatar": response.URL}); err != nil {
		return "", err
	}

	s.logger.LogUserAction(userID, "avatar_updated", map[string]interface{}{
		"size": len(processed),
	})

	return response.URL, nil
}

func (s *userService) CreateReview(ctx context.Context, reviewerID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error) {
	if reviewerID.IsZero() {
		return nil, ErrUnauthenticated
	}

	revieweeID, err := primitive.ObjectIDFromHex(request.RevieweeID)
	if err != nil {
		return nil, NewValidationError("reviewee_id", "invalid user id")
	}
	if revieweeID == reviewerID {
		return nil, NewValidationError("reviewee_id", "cannot review yourself")
	}
	if request.Rating < utils.MinRating || request.Rating > utils.MaxRating {
		return nil, NewValidationError("rating", "rating must be between 1 and 5")
	}

	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, revieweeID); err != nil {
		return nil, err
	}

	review := &models.Review{
		RevieweeID: revieweeID,
		Rating:     request.Rating,
		Content:    utils.SanitizeString(request.Content),
		Reviewer: models.ReviewerSnapshot{
			ID:     reviewer.ID,
			Name:   reviewer.Name,
			Avatar: reviewer.Avatar,
		},
	}
	if request.TripID != "" {
		tripID, err := primitive.ObjectIDFromHex(request.TripID)
		if err != nil {
			return nil, NewValidationError("trip_id", "invalid trip id")
		}
		review.TripID = &tripID
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.recomputeRating(ctx, revieweeID)

	s.logger.LogUserAction(reviewerID, "review_created", map[string]interface{}{
		"reviewee_id": revieweeID.Hex(),
		"rating":      request.Rating,
	})

	return review, nil
}

// recomputeRating refreshes the denormalized rating on the user document.
// A failure here leaves a stale aggregate, which the next review fixes.
func (s *userService) recomputeRating(ctx context.Context, userID primitive.ObjectID) {
	rating, count, err := s.reviewRepo.AverageRating(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Rating aggregation failed")
		return
	}

	if err := s.userRepo.UpdateRating(ctx, userID, rating, count); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Rating update failed")
		return
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.WithError(err).Debug("User cache invalidation failed")
	}
}

func (s *userService) GetUserReviews(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.GetByReviewee(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	return reviews, total, nil
}

func (s *userService) GetTripReviews(ctx context.Context, tripID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.GetByTrip(ctx, tripID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	return reviews, total, nil
}
