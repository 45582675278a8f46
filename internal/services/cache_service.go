package services

import (
	"context"
	"fmt"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CacheService interface {
	// Basic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	SetExpire(ctx context.Context, key string, expiration time.Duration) error

	// Session operations
	SetSession(ctx context.Context, sessionID string, session *UserSession, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*UserSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	TouchSession(ctx context.Context, sessionID string, expiration time.Duration) error

	// Application-specific cache operations
	CacheUser(ctx context.Context, user *models.User, expiration time.Duration) error
	GetCachedUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	InvalidateUser(ctx context.Context, userID primitive.ObjectID) error

	CacheTrip(ctx context.Context, trip *models.Trip, expiration time.Duration) error
	GetCachedTrip(ctx context.Context, tripID primitive.ObjectID) (*models.Trip, error)
	InvalidateTrip(ctx context.Context, tripID primitive.ObjectID) error

	// Search popularity counters
	BumpRouteCount(ctx context.Context, city string) error
	TopRoutes(ctx context.Context, limit int64) ([]RouteCount, error)

	// Rate limiting
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type RedisClient interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	SetExpire(ctx context.Context, key string, expiration time.Duration) error
	ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error)
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error)
	Ping(ctx context.Context) error
}

// UserSession is what the auth layer keeps in Redis per login. A session
// dies when it sits untouched longer than the inactivity window.
type UserSession struct {
	SessionID    string             `json:"session_id"`
	UserID       primitive.ObjectID `json:"user_id"`
	Email        string             `json:"email"`
	UserAgent    string             `json:"user_agent,omitempty"`
	IPAddress    string             `json:"ip_address,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	LastActiveAt time.Time          `json:"last_active_at"`
}

type RouteCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type cacheService struct {
	redisClient RedisClient
	logger      *logger.Logger
	keyPrefix   string
	defaultTTL  time.Duration
}

func NewCacheService(redisClient RedisClient, logger *logger.Logger, keyPrefix string, defaultTTL time.Duration) CacheService {
	return &cacheService{
		redisClient: redisClient,
		logger:      logger,
		keyPrefix:   keyPrefix,
		defaultTTL:  defaultTTL,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if err := s.redisClient.Get(ctx, s.buildKey(key), dest); err != nil {
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	return nil
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration == 0 {
		expiration = s.defaultTTL
	}

	if err := s.redisClient.Set(ctx, s.buildKey(key), value, expiration); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = s.buildKey(key)
	}

	if err := s.redisClient.Delete(ctx, fullKeys...); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	return s.redisClient.Exists(ctx, s.buildKey(key))
}

func (s *cacheService) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if expiration == 0 {
		expiration = s.defaultTTL
	}
	return s.redisClient.SetNX(ctx, s.buildKey(key), value, expiration)
}

func (s *cacheService) SetExpire(ctx context.Context, key string, expiration time.Duration) error {
	return s.redisClient.SetExpire(ctx, s.buildKey(key), expiration)
}

// Session operations
func (s *cacheService) SetSession(ctx context.Context, sessionID string, session *UserSession, expiration time.Duration) error {
	return s.Set(ctx, utils.CacheSessionPrefix+sessionID, session, expiration)
}

func (s *cacheService) GetSession(ctx context.Context, sessionID string) (*UserSession, error) {
	var session UserSession
	if err := s.Get(ctx, utils.CacheSessionPrefix+sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *cacheService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.Delete(ctx, utils.CacheSessionPrefix+sessionID)
}

// TouchSession records activity: the stored timestamp moves forward and
// the key's expiry restarts, so only a full window of silence kills it.
func (s *cacheService) TouchSession(ctx context.Context, sessionID string, expiration time.Duration) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.LastActiveAt = time.Now()
	return s.SetSession(ctx, sessionID, session, expiration)
}

// Application-specific cache operations
func (s *cacheService) CacheUser(ctx context.Context, user *models.User, expiration time.Duration) error {
	return s.Set(ctx, utils.CacheUserPrefix+user.ID.Hex(), user, expiration)
}

func (s *cacheService) GetCachedUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Get(ctx, utils.CacheUserPrefix+userID.Hex(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *cacheService) InvalidateUser(ctx context.Context, userID primitive.ObjectID) error {
	return s.Delete(ctx,
		utils.CacheUserPrefix+userID.Hex(),
		utils.CacheUserStatsPrefix+userID.Hex(),
	)
}

func (s *cacheService) CacheTrip(ctx context.Context, trip *models.Trip, expiration time.Duration) error {
	return s.Set(ctx, utils.CacheTripPrefix+trip.ID.Hex(), trip, expiration)
}

func (s *cacheService) GetCachedTrip(ctx context.Context, tripID primitive.ObjectID) (*models.Trip, error) {
	var trip models.Trip
	if err := s.Get(ctx, utils.CacheTripPrefix+tripID.Hex(), &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (s *cacheService) InvalidateTrip(ctx context.Context, tripID primitive.ObjectID) error {
	return s.Delete(ctx, utils.CacheTripPrefix+tripID.Hex())
}

// Search popularity counters
func (s *cacheService) BumpRouteCount(ctx context.Context, city string) error {
	if city == "" {
		return nil
	}

	_, err := s.redisClient.ZIncrBy(ctx, s.buildKey(utils.CachePopularCitiesKey), 1, city)
	return err
}

func (s *cacheService) TopRoutes(ctx context.Context, limit int64) ([]RouteCount, error) {
	entries, err := s.redisClient.ZRevRangeWithScores(ctx, s.buildKey(utils.CachePopularCitiesKey), 0, limit-1)
	if err != nil {
		return nil, err
	}

	routes := make([]RouteCount, 0, len(entries))
	for _, entry := range entries {
		city, ok := entry.Member.(string)
		if !ok {
			continue
		}
		routes = append(routes, RouteCount{City: city, Count: int64(entry.Score)})
	}

	return routes, nil
}

// Rate limiting
func (s *cacheService) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	rateLimitKey := s.buildKey(utils.CacheRateLimitPrefix + key)

	count, err := s.redisClient.Increment(ctx, rateLimitKey)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := s.redisClient.SetExpire(ctx, rateLimitKey, window); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to set rate limit window")
		}
	}

	return count <= limit, nil
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.redisClient.Ping(ctx)
}

func (s *cacheService) buildKey(key string) string {
	if s.keyPrefix != "" {
		return fmt.Sprintf("%s:%s", s.keyPrefix, key)
	}
	return key
}
