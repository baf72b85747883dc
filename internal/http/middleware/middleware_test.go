package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"collabhub/internal/common"
	"collabhub/internal/security"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateStoresSubject(t *testing.T) {
	jwt := security.NewJWTProvider("secret", "")
	userID := common.NewUUID()
	token, _, err := jwt.Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	var seen common.UUID
	handler := NewAuthMiddleware(jwt).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != userID {
		t.Fatalf("expected %s, got %q", userID, seen)
	}
}

func TestAuthenticateRejectsMissingOrBadTokens(t *testing.T) {
	handler := NewAuthMiddleware(security.NewJWTProvider("secret", "")).Authenticate(okHandler())
	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !limiter.Allow("invite:u1", 3, time.Minute) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if limiter.Allow("invite:u1", 3, time.Minute) {
		t.Fatal("fourth request should be limited")
	}
	if !limiter.Allow("invite:u2", 3, time.Minute) {
		t.Fatal("keys must be independent")
	}
	now = now.Add(20 * time.Second)
	if !limiter.Allow("invite:u1", 3, time.Minute) {
		t.Fatal("a token should refill after window/limit")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	limiter := NewRateLimiter()
	handler := RateLimit(limiter, func(*http.Request) string { return "k" }, 1, time.Hour)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/", nil))
	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first.Code, second.Code)
	}
}

func TestUserKeyPrefersUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := UserKey("invite")(req); got != "invite:ip:10.0.0.1" {
		t.Fatalf("unexpected anonymous key %q", got)
	}
	req = req.WithContext(WithUserID(req.Context(), "u1"))
	if got := UserKey("invite")(req); got != "invite:u1" {
		t.Fatalf("unexpected user key %q", got)
	}
}

func TestClientIPTakesFirstForwardedHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first hop, got %q", got)
	}
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover(zap.NewNop()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	RequestID(okHandler()).ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !hasDeadline {
		t.Fatal("expected a request deadline")
	}
}
