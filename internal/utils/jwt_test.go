package utils

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-signing-key"

func TestGenerateTokenPairStampsTokenUse(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "ana@example.com", "sess-1", testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	access, err := ValidateJWT(pair.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if access.TokenUse != TokenUseAccess {
		t.Fatalf("access token_use = %q, want %q", access.TokenUse, TokenUseAccess)
	}

	refresh, err := ValidateJWT(pair.RefreshToken, testSecret)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refresh.TokenUse != TokenUseRefresh {
		t.Fatalf("refresh token_use = %q, want %q", refresh.TokenUse, TokenUseRefresh)
	}
}

func TestRefreshValidationRejectsAccessToken(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "ana@example.com", "sess-1", testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateRefreshJWT(pair.AccessToken, testSecret); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
	if _, err := ValidateRefreshJWT(pair.RefreshToken, testSecret); err != nil {
		t.Fatalf("refresh token rejected: %v", err)
	}
}

func TestAccessValidationRejectsRefreshToken(t *testing.T) {
	pair, err := GenerateTokenPair(primitive.NewObjectID(), "ana@example.com", "sess-1", testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateAccessJWT(pair.RefreshToken, testSecret); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := ValidateAccessJWT(pair.AccessToken, testSecret); err != nil {
		t.Fatalf("access token rejected: %v", err)
	}
}
