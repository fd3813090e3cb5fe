package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"
)

func testKeyPair(t *testing.T) (privatePEM, publicPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	privatePEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	publicPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})
	return privatePEM, publicPEM
}

func newTestService(t *testing.T, accessTTL time.Duration) *AuthService {
	t.Helper()

	privatePEM, publicPEM := testKeyPair(t)
	service, err := NewAuthService(privatePEM, publicPEM, accessTTL, 24*time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return service
}

func TestTokenPairRoundTrip(t *testing.T) {
	service := newTestService(t, time.Hour)

	pair, err := service.GenerateTokenPair(42)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	claims, err := service.ValidateTokenOfType(pair.AccessToken, TokenTypeAccess)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}

	claims, err = service.ValidateTokenOfType(pair.RefreshToken, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	service := newTestService(t, time.Hour)

	pair, err := service.GenerateTokenPair(7)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	_, err = service.ValidateTokenOfType(pair.RefreshToken, TokenTypeAccess)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestExpiredTokenDistinctError(t *testing.T) {
	service := newTestService(t, -time.Minute)

	pair, err := service.GenerateTokenPair(7)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	_, err = service.ValidateToken(pair.AccessToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, ErrTokenInvalid) {
		t.Fatal("expired must not also report invalid")
	}
}

func TestTamperedTokenInvalid(t *testing.T) {
	service := newTestService(t, time.Hour)

	pair, err := service.GenerateTokenPair(7)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	if _, err := service.ValidateToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerificationTokenType(t *testing.T) {
	service := newTestService(t, time.Hour)

	token, err := service.GenerateVerificationToken(9)
	if err != nil {
		t.Fatalf("generate verification token: %v", err)
	}

	claims, err := service.ValidateTokenOfType(token, TokenTypeVerification)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 9 {
		t.Fatalf("expected user 9, got %d", claims.UserID)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("hunter22", hash) {
		t.Fatal("expected password to match its hash")
	}
	if CheckPasswordHash("hunter23", hash) {
		t.Fatal("wrong password must not match")
	}
}
