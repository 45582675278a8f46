package middleware

import (
	"strings"
	"time"

	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthMiddleware struct {
	cache             services.CacheService
	jwtSecret         string
	sessionInactivity time.Duration
	logger            *logger.Logger
}

func NewAuthMiddleware(cache services.CacheService, jwtSecret string, sessionInactivity time.Duration, logger *logger.Logger) *AuthMiddleware {
	if sessionInactivity <= 0 {
		sessionInactivity = utils.SessionInactivityWindow
	}
	return &AuthMiddleware{
		cache:             cache,
		jwtSecret:         jwtSecret,
		sessionInactivity: sessionInactivity,
		logger:            logger,
	}
}

// RequireAuth validates the bearer token and the backing session. A
// session that sat untouched past the inactivity window is gone from the
// cache, which forces a fresh login regardless of token validity. Every
// authenticated request slides the window forward.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.authenticate(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		setAuthContext(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid token is present but
// never rejects the request. Public endpoints that personalize results
// use this.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.authenticate(c); ok {
			setAuthContext(c, claims)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*utils.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, false
	}

	claims, err := utils.ValidateAccessJWT(tokenString, m.jwtSecret)
	if err != nil {
		m.logger.WithError(err).Debug("Token validation failed")
		return nil, false
	}

	ctx := c.Request.Context()
	if _, err := m.cache.GetSession(ctx, claims.SessionID); err != nil {
		m.logger.WithUserID(claims.UserID).Debug("Session missing or expired")
		return nil, false
	}

	if err := m.cache.TouchSession(ctx, claims.SessionID, m.sessionInactivity); err != nil {
		m.logger.WithError(err).Warn("Session touch failed")
	}

	return claims, true
}

func setAuthContext(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("session_id", claims.SessionID)
	c.Set("email", claims.Email)
}

// CurrentUserID reads the authenticated user from the request context.
// The zero ObjectID means the request is anonymous.
func CurrentUserID(c *gin.Context) primitive.ObjectID {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}

	return userID
}

func CurrentSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
