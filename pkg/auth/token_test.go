package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slatefolio",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()

	payload := AccessTokenPayload{
		UserID:   userID,
		Username: "admin",
		JTI:      "jti-fixed",
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "admin" {
		t.Fatalf("unexpected username %q", claims.Username)
	}
	if claims.ID != "jti-fixed" {
		t.Fatalf("jti not preserved, got %q", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slatefolio",
		ExpirationMinutes: 5,
	}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Username: "admin"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slatefolio",
		ExpirationMinutes: 10,
	}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err = ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slatefolio",
		ExpirationMinutes: 15,
	}
	now := time.Now().Add(-time.Hour)
	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMintAccessTokenMissingUser(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "slatefolio",
		ExpirationMinutes: 5,
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing user error")
	}
}
