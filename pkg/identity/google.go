package identity

import (
	"context"
	"errors"
	"fmt"

	"tripshare/pkg/oauth"
)

// ErrRevokeUnsupported is returned by providers that cannot revoke
// sessions server-side by account id.
var ErrRevokeUnsupported = errors.New("provider does not support server-side session revocation")

// GoogleVerifier validates raw Google access tokens by resolving them
// against the userinfo endpoint. It is an alternative to the Firebase
// verifier for deployments that integrate Google sign-in directly.
type GoogleVerifier struct {
	provider oauth.Provider
}

func NewGoogleVerifier(provider oauth.Provider) *GoogleVerifier {
	return &GoogleVerifier{provider: provider}
}

func (g *GoogleVerifier) VerifyIDToken(ctx context.Context, token string) (*Identity, error) {
	info, err := g.provider.UserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}

	return &Identity{
		UID:           "google:" + info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
		Picture:       info.Picture,
		SignInMethod:  "google.com",
	}, nil
}

// RevokeSessions cannot be expressed against Google's OAuth surface,
// which revokes individual tokens rather than all grants for a subject.
// Local sessions are still deleted by the auth service; only the
// provider-side sweep is unavailable.
func (g *GoogleVerifier) RevokeSessions(ctx context.Context, uid string) error {
	return ErrRevokeUnsupported
}
