package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripshare/internal/models"
	"tripshare/internal/repositories/interfaces"
	"tripshare/internal/utils"
	"tripshare/pkg/identity"
	"tripshare/pkg/logger"
	"tripshare/pkg/observability"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService exchanges identity-provider tokens for backend sessions.
// Credential handling (passwords, social sign-in, email verification)
// lives entirely with the provider; this layer only verifies tokens and
// keeps the local user record in sync.
type AuthService interface {
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID primitive.ObjectID, sessionID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	RevokeAllSessions(ctx context.Context, userID primitive.ObjectID) error
}

type LoginRequest struct {
	IDToken   string `json:"id_token" validate:"required"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type AuthResponse struct {
	User      *models.User     `json:"user"`
	Tokens    *utils.TokenPair `json:"tokens"`
	SessionID string           `json:"session_id"`
	IsNewUser bool             `json:"is_new_user"`
}

type authService struct {
	userRepo          interfaces.UserRepository
	verifier          identity.TokenVerifier
	cache             CacheService
	jwtSecret         string
	sessionInactivity time.Duration
	logger            *logger.Logger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	verifier identity.TokenVerifier,
	cache CacheService,
	jwtSecret string,
	sessionInactivity time.Duration,
	logger *logger.Logger,
) AuthService {
	if sessionInactivity <= 0 {
		sessionInactivity = utils.SessionInactivityWindow
	}
	return &authService{
		userRepo:          userRepo,
		verifier:          verifier,
		cache:             cache,
		jwtSecret:         jwtSecret,
		sessionInactivity: sessionInactivity,
		logger:            logger,
	}
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if request.IDToken == "" {
		return nil, NewValidationError("id_token", "identity token is required")
	}

	ident, err := s.verifier.VerifyIDToken(ctx, request.IDToken)
	if err != nil {
		s.logger.WithError(err).Warn("Identity token verification failed")
		return nil, fmt.Errorf("%w: token rejected by identity provider", ErrUnauthenticated)
	}

	user, isNew, err := s.syncUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	if user.Status == models.UserStatusSuspended {
		return nil, fmt.Errorf("%w: account suspended", ErrUnauthenticated)
	}

	session := &UserSession{
		SessionID:    utils.GenerateSessionID(),
		UserID:       user.ID,
		Email:        user.Email,
		UserAgent:    request.UserAgent,
		IPAddress:    request.IPAddress,
		CreatedAt:    time.Now(),
		LastActiveAt: time.Now(),
	}
	if err := s.cache.SetSession(ctx, session.SessionID, session, s.sessionInactivity); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, session.SessionID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Last login update failed")
	}

	observability.ActiveSessions.Inc()
	s.logger.WithUserID(user.ID).WithFields(map[string]interface{}{
		"session_id":  session.SessionID,
		"is_new_user": isNew,
		"provider":    ident.SignInMethod,
	}).Info("User logged in")

	return &AuthResponse{
		User:      user,
		Tokens:    tokens,
		SessionID: session.SessionID,
		IsNewUser: isNew,
	}, nil
}

// syncUser upserts the local user record from the verified identity. The
// provider UID is the join key; email and avatar refresh on every login.
func (s *authService) syncUser(ctx context.Context, ident *identity.Identity) (*models.User, bool, error) {
	user, err := s.userRepo.GetByAuthUID(ctx, ident.UID)
	if err == nil {
		updates := map[string]interface{}{
			"email_verified": ident.EmailVerified,
		}
		if ident.Email != "" && ident.Email != user.Email {
			updates["email"] = ident.Email
		}
		if user.Avatar == "" && ident.Picture != "" {
			updates["avatar"] = ident.Picture
		}
		if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Identity sync update failed")
		}
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	name := ident.Name
	if name == "" {
		name = "Anonymous"
	}

	user = &models.User{
		AuthUID:       ident.UID,
		Name:          name,
		Email:         ident.Email,
		Avatar:        ident.Picture,
		EmailVerified: ident.EmailVerified,
		MemberSince:   utils.FormatMemberSince(time.Now()),
		Status:        models.UserStatusActive,
	}
	user.Normalize()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("New user provisioned from identity provider")

	return user, true, nil
}

func (s *authService) Logout(ctx context.Context, userID primitive.ObjectID, sessionID string) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}

	if err := s.cache.DeleteSession(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Session delete failed on logout")
	}

	if err := s.userRepo.UpdateLastLogout(ctx, userID); err != nil {
		s.logger.WithError(err).WithUserID(userID).Warn("Last logout update failed")
	}

	observability.ActiveSessions.Dec()
	s.logger.WithUserID(userID).Info("User logged out")
	return nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateRefreshJWT(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	// The session must still be alive; a refresh token alone does not
	// outlive the inactivity window.
	session, err := s.cache.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthenticated)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusSuspended {
		return nil, fmt.Errorf("%w: account suspended", ErrUnauthenticated)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, session.SessionID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.cache.TouchSession(ctx, session.SessionID, s.sessionInactivity); err != nil {
		s.logger.WithError(err).Warn("Session touch failed on refresh")
	}

	return &AuthResponse{
		User:      user,
		Tokens:    tokens,
		SessionID: session.SessionID,
	}, nil
}

// RevokeAllSessions force-logs-out every device by revoking the
// provider-side refresh tokens. Backend sessions die on their own once
// untouched past the inactivity window.
func (s *authService) RevokeAllSessions(ctx context.Context, userID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.verifier.RevokeSessions(ctx, user.AuthUID); err != nil {
		return fmt.Errorf("failed to revoke provider sessions: %w", err)
	}

	s.logger.WithUserID(userID).Info("All sessions revoked")
	return nil
}
