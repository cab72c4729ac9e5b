package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/csrf"

	"exitpass/auth"
)

func newProtectedServer() http.Handler {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	protect := csrf.Protect(
		[]byte("0123456789abcdef0123456789abcdef"),
		csrf.Secure(false),
		csrf.Path("/"),
	)
	return PlaintextHTTPMiddleware(protect(mux))
}

func TestCSRFProtectsLogin(t *testing.T) {
	server := newProtectedServer()

	t.Run("POST without token is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/login", strings.NewReader(`{"username": "khaled", "password": "Khaled@2025"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403 Forbidden, got %d", w.Code)
		}
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.SessionName {
				t.Error("session cookie issued despite CSRF failure")
			}
		}
	})

	t.Run("POST with token from the csrf endpoint succeeds", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/csrf", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("csrf endpoint: expected 200, got %d", w.Code)
		}
		cookies := w.Result().Cookies()
		_, data := decodeResponse(t, w)
		token, _ := data["csrf_token"].(string)
		if token == "" {
			t.Fatal("csrf endpoint returned no token")
		}

		req := httptest.NewRequest("POST", "/api/v1/login", strings.NewReader(`{"username": "khaled", "password": "Khaled@2025"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", token)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w = httptest.NewRecorder()

		server.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}
