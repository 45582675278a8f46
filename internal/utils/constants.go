package utils

import "time"

// Application Constants
const (
	AppName    = "TripShare"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "es"
	DefaultCurrency = "ARS"
	DefaultTimeZone = "America/Argentina/Buenos_Aires"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Sessions expire after this much inactivity, measured from the last
	// recorded user action.
	SessionInactivityWindow = 48 * time.Hour

	// Trip Constants
	MaxTripSeats     = 8
	MaxTripStops     = 5
	MaxFeatureTags   = 10
	MaxNotesLength   = 1000
	MaxMessageLength = 500
	RelatedTripLimit = 3

	// Rating Constants
	MinRating = 1.0
	MaxRating = 5.0

	// Geo
	EarthRadiusKM = 6371.0

	// File Upload
	MaxAvatarSize   = 5 * 1024 * 1024 // 5MB
	AvatarPixelSize = 256             // square thumbnails

	// Rate Limiting
	DefaultRateLimit = 100
	SearchRateLimit  = 30
	BookingRateLimit = 10

	// Cache TTLs
	TripCacheTTL          = 15 * time.Minute
	UserCacheTTL          = 30 * time.Minute
	PopularCitiesCacheTTL = 24 * time.Hour
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrTripNotFound       = "trip not found"
	ErrBookingNotFound    = "booking not found"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrSessionExpired     = "session expired"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrConflict           = "conflict"
	ErrValidationFailed   = "validation failed"
	ErrStoreUnavailable   = "store temporarily unavailable"
	ErrBookingFailed      = "booking could not be completed"
	ErrNotEnoughSeats     = "not enough seats available"
)

// Cache Keys
const (
	CacheUserPrefix          = "user:"
	CacheTripPrefix          = "trip:"
	CacheSessionPrefix       = "session:"
	CacheRateLimitPrefix     = "rate_limit:"
	CachePopularCitiesKey    = "cities:popular"
	CacheUserStatsPrefix     = "user_stats:"
	CacheSearchResultsPrefix = "search:"
)

// Sort options accepted by trip search.
const (
	SortRecommended = "recommended"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortDeparture   = "departure"
	SortRating      = "rating"
)

// File Types
var (
	AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
)
