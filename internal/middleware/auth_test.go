package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/studycam/api/pkg/identity"
)

// ============================================================================
// Test Helpers
// ============================================================================

// stubVerifier lets tests control verification outcomes directly
type stubVerifier struct {
	claims *identity.Claims
	err    error
}

func (s *stubVerifier) Verify(token string) (*identity.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newTestVerifier(t *testing.T) *identity.Service {
	t.Helper()
	svc, err := identity.NewService(identity.Config{
		Secret: "test-secret",
		Issuer: "test-issuer",
		TTL:    15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create identity service: %v", err)
	}
	return svc
}

func okHandler(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = GetUserID(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

// ============================================================================
// Auth Middleware Tests
// ============================================================================

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	t.Parallel()
	handler := Auth(&stubVerifier{})(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "missing authorization header") {
		t.Errorf("expected missing header message, got %s", rr.Body.String())
	}
}

func TestAuth_MalformedHeader_Returns401(t *testing.T) {
	t.Parallel()
	handler := Auth(&stubVerifier{})(okHandler(nil))

	for _, header := range []string{"Bearer", "Basic abc123", "just-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rr.Code)
		}
	}
}

func TestAuth_ExpiredToken_Returns401WithExpiredMessage(t *testing.T) {
	t.Parallel()
	verifier := &stubVerifier{err: identity.ErrTokenExpired}
	handler := Auth(verifier)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "token expired") {
		t.Errorf("expected expired message, got %s", rr.Body.String())
	}
}

func TestAuth_InvalidSignature_Returns401WithSignatureMessage(t *testing.T) {
	t.Parallel()
	verifier := &stubVerifier{err: identity.ErrInvalidSignature}
	handler := Auth(verifier)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid token signature") {
		t.Errorf("expected signature message, got %s", rr.Body.String())
	}
}

func TestAuth_OtherVerifyError_Returns401Generic(t *testing.T) {
	t.Parallel()
	verifier := &stubVerifier{err: identity.ErrInvalidToken}
	handler := Auth(verifier)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "invalid token") {
		t.Errorf("expected generic message, got %s", rr.Body.String())
	}
}

func TestAuth_ValidToken_SetsUserIDInContext(t *testing.T) {
	t.Parallel()
	verifier := &stubVerifier{claims: &identity.Claims{UserID: "user:123"}}

	var gotUserID string
	handler := Auth(verifier)(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if gotUserID != "user:123" {
		t.Errorf("expected user ID 'user:123' in context, got %q", gotUserID)
	}
}

func TestAuth_CaseInsensitiveBearerScheme(t *testing.T) {
	t.Parallel()
	verifier := &stubVerifier{claims: &identity.Claims{UserID: "user:123"}}
	handler := Auth(verifier)(okHandler(nil))

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", scheme+" some-token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("scheme %q: expected 200, got %d", scheme, rr.Code)
		}
	}
}

// ============================================================================
// End-to-End with Real Verifier
// ============================================================================

func TestAuth_RealService_SignedTokenPassesThrough(t *testing.T) {
	t.Parallel()
	svc := newTestVerifier(t)
	token, err := svc.Sign("user:456")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	var gotUserID string
	handler := Auth(svc)(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if gotUserID != "user:456" {
		t.Errorf("expected user ID 'user:456', got %q", gotUserID)
	}
}

func TestAuth_RealService_TamperedTokenRejected(t *testing.T) {
	t.Parallel()
	svc := newTestVerifier(t)
	token, err := svc.Sign("user:456")
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	handler := Auth(svc)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for tampered token, got %d", rr.Code)
	}
}

// ============================================================================
// GetUserID Tests
// ============================================================================

func TestGetUserID_NotSet_ReturnsEmpty(t *testing.T) {
	t.Parallel()

	if got := GetUserID(context.Background()); got != "" {
		t.Errorf("expected empty user ID, got %q", got)
	}
}

func TestGetUserID_WrongType_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), UserIDKey, 42)

	if got := GetUserID(ctx); got != "" {
		t.Errorf("expected empty user ID for non-string value, got %q", got)
	}
}
