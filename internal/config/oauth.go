package config

type OAuthConfig struct {
	// Provider selects the identity verifier: "firebase" (default) or
	// "google" for raw Google access-token verification.
	Provider string             `yaml:"provider"`
	Google   *GoogleOAuthConfig `yaml:"google"`
}

type GoogleOAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

func loadOAuthConfig() *OAuthConfig {
	return &OAuthConfig{
		Provider: getEnv("AUTH_PROVIDER", "firebase"),
		Google: &GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
	}
}
