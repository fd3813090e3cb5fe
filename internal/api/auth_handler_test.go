package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/auth"
	"github.com/srijanidas-codeclouds/Resume-Builder/internal/database"
)

type fakeDispatcher struct {
	tokens map[string]string
	fail   bool
}

func (d *fakeDispatcher) DispatchVerification(_ context.Context, email, token, _ string) error {
	if d.fail {
		return context.DeadlineExceeded
	}
	if d.tokens == nil {
		d.tokens = map[string]string{}
	}
	d.tokens[email] = token
	return nil
}

type fakeRelay struct {
	messages []string
	fail     bool
}

func (r *fakeRelay) RelayContactMessage(fromName, fromEmail, message string) error {
	if r.fail {
		return context.DeadlineExceeded
	}
	r.messages = append(r.messages, fromName+"|"+fromEmail+"|"+message)
	return nil
}

func newTestAuthService(t *testing.T) *auth.AuthService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	service, err := auth.NewAuthService(privatePEM, publicPEM, time.Hour, 24*time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return service
}

type authFixture struct {
	handler    *AuthHandler
	db         *gorm.DB
	dispatcher *fakeDispatcher
	relay      *fakeRelay
	service    *auth.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	service := newTestAuthService(t)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	dispatcher := &fakeDispatcher{}
	relay := &fakeRelay{}
	handler := NewAuthHandler(db, service, redisClient, nil, dispatcher, relay, 8, false, 100)

	return &authFixture{
		handler:    handler,
		db:         db,
		dispatcher: dispatcher,
		relay:      relay,
		service:    service,
	}
}

func (f *authFixture) register(t *testing.T, name, email, password string) {
	t.Helper()
	c, w := jsonContext(t, http.MethodPost, "/v1/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	f.handler.Register(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
}

func (f *authFixture) verify(t *testing.T, email string) {
	t.Helper()
	token, ok := f.dispatcher.tokens[email]
	if !ok {
		t.Fatalf("no verification token dispatched for %s", email)
	}
	c, w := jsonContext(t, http.MethodPost, "/v1/auth/verify", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	f.handler.Verify(c)
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func (f *authFixture) login(t *testing.T, email, password string) (int, map[string]json.RawMessage) {
	t.Helper()
	c, w := jsonContext(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	f.handler.Login(c)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return w.Code, body
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")

	// Unverified accounts cannot log in.
	code, body := f.login(t, "alice@example.com", "supersecret")
	if code != http.StatusForbidden {
		t.Fatalf("unverified login: expected 403 got %d", code)
	}

	f.verify(t, "alice@example.com")

	code, body = f.login(t, "alice@example.com", "supersecret")
	if code != http.StatusOK {
		t.Fatalf("verified login: expected 200 got %d", code)
	}

	var message string
	if err := json.Unmarshal(body["message"], &message); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if message != "Welcome back Alice" {
		t.Errorf("message = %q", message)
	}

	var accessToken string
	if err := json.Unmarshal(body["accessToken"], &accessToken); err != nil {
		t.Fatalf("decode access token: %v", err)
	}
	claims, err := f.service.ValidateTokenOfType(accessToken, auth.TokenTypeAccess)
	if err != nil {
		t.Fatalf("validate issued access token: %v", err)
	}
	if claims.UserID == 0 {
		t.Error("claims carry no user id")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")

	c, w := jsonContext(t, http.MethodPost, "/v1/auth/register", map[string]any{
		"name":     "Impostor",
		"email":    "Alice@Example.com",
		"password": "supersecret",
	})
	f.handler.Register(c)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(t, http.MethodPost, "/v1/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	f.handler.Register(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")
	f.verify(t, "alice@example.com")

	code, body := f.login(t, "alice@example.com", "not-the-password")
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", code)
	}
	var msg string
	if err := json.Unmarshal(body["error"], &msg); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if msg != "invalid credentials" {
		t.Errorf("error = %q", msg)
	}
}

func TestLoginReplacesSessionRow(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")
	f.verify(t, "alice@example.com")

	for i := 0; i < 2; i++ {
		if code, _ := f.login(t, "alice@example.com", "supersecret"); code != http.StatusOK {
			t.Fatalf("login %d: expected 200 got %d", i, code)
		}
	}

	var count int64
	if err := f.db.Model(&database.Session{}).Count(&count).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("session rows = %d, want 1", count)
	}
}

func TestVerifyTwiceIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")
	f.verify(t, "alice@example.com")

	token := f.dispatcher.tokens["alice@example.com"]
	c, w := jsonContext(t, http.MethodPost, "/v1/auth/verify", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	f.handler.Verify(c)
	if w.Code != http.StatusOK {
		t.Fatalf("second verify: expected 200 got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Email already verified." {
		t.Errorf("message = %q", body["message"])
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)

	f.register(t, "Alice", "alice@example.com", "supersecret")
	f.verify(t, "alice@example.com")
	if code, _ := f.login(t, "alice@example.com", "supersecret"); code != http.StatusOK {
		t.Fatalf("login failed")
	}

	for i := 0; i < 2; i++ {
		c, w := jsonContext(t, http.MethodPost, "/v1/auth/logout", nil)
		f.handler.Logout(c)
		if w.Code != http.StatusOK {
			t.Fatalf("logout %d: expected 200 got %d", i, w.Code)
		}
	}

	var count int64
	if err := f.db.Model(&database.Session{}).Count(&count).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("session rows = %d, want 0", count)
	}
}

func TestRegisterSurvivesDispatchFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.dispatcher.fail = true

	// blockOnEmail is off, so the account is created regardless.
	f.register(t, "Alice", "alice@example.com", "supersecret")

	var count int64
	if err := f.db.Model(&database.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestLoginRateLimit(t *testing.T) {
	f := newAuthFixture(t)
	f.handler.loginRateLimitPerHour = 2

	f.register(t, "Alice", "alice@example.com", "supersecret")
	f.verify(t, "alice@example.com")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		code, _ := f.login(t, "alice@example.com", "supersecret")
		codes = append(codes, code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first logins should pass: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third login = %d, want 429", codes[2])
	}
}

func TestContactRelaysMessage(t *testing.T) {
	f := newAuthFixture(t)

	c, w := jsonContext(t, http.MethodPost, "/v1/auth/contact", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Hello there",
	})
	f.handler.Contact(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if len(f.relay.messages) != 1 {
		t.Fatalf("relayed messages = %d", len(f.relay.messages))
	}

	f.relay.fail = true
	c, w = jsonContext(t, http.MethodPost, "/v1/auth/contact", map[string]any{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Hello again",
	})
	f.handler.Contact(c)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", w.Code)
	}
}
