package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func identityEcho(t *testing.T, wantID uuid.UUID, wantAdmin bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantID {
			t.Errorf("Expected user id %s, got %s", wantID, got)
		}
		if got := GetIsAdmin(r.Context()); got != wantAdmin {
			t.Errorf("Expected is_admin %v, got %v", wantAdmin, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareBearerToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID, "admin@example.com", true)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	auth.Middleware(identityEcho(t, userID, true)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestMiddlewareCookieToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID, "user@example.com", false)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/course/view.php?id=1", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rr := httptest.NewRecorder()

	auth.Middleware(identityEcho(t, userID, false)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}

func TestMiddlewareRejects(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	other := NewJWTAuth("other-secret")
	goodToken, _ := other.GenerateAccessToken(uuid.New(), "u@example.com", false)

	tests := []struct {
		name   string
		header string
	}{
		{"missing token", ""},
		{"malformed header", "token-without-scheme"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + goodToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("Handler should not be reached")
			})).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestOptionalMiddlewareAnonymous(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/course/view.php?id=1", nil)
	rr := httptest.NewRecorder()

	auth.OptionalMiddleware(identityEcho(t, uuid.Nil, false)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected anonymous request to pass, got %d", rr.Code)
	}
}

func TestOptionalMiddlewareInvalidTokenIsAnonymous(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/course/view.php?id=1", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "stale-token"})
	rr := httptest.NewRecorder()

	auth.OptionalMiddleware(identityEcho(t, uuid.Nil, false)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected invalid token to degrade to anonymous, got %d", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	handler := auth.Middleware(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	adminToken, _ := auth.GenerateAccessToken(uuid.New(), "admin@example.com", true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected admin to pass, got %d", rr.Code)
	}

	userToken, _ := auth.GenerateAccessToken(uuid.New(), "user@example.com", false)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/activities", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-admin, got %d", rr.Code)
	}
}
