package oauth

import "context"

// Provider resolves an opaque access token into the account it belongs
// to. It is the thin HTTP edge under the identity layer; session and
// user handling live above it.
type Provider interface {
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	Revoke(ctx context.Context, token string) error
}

type UserInfo struct {
	Subject       string `json:"subject"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
