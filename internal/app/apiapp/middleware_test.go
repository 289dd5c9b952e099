package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redrepo "github.com/nkarpovich/duet-backend/internal/repo/redis"
	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	ratesvc "github.com/nkarpovich/duet-backend/internal/services/rate"
)

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	authService := authsvc.NewService(jwtManager, nil, 0)
	mw := AuthMiddleware(authService, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	jwtManager := authsvc.NewJWTManager("test-secret", time.Minute)
	authService := authsvc.NewService(jwtManager, nil, 0)
	mw := AuthMiddleware(authService, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called with a garbage token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v) want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestRateLimitMiddlewareBlocksAboveCeiling(t *testing.T) {
	mini := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratesvc.NewLimiter(redrepo.NewRateRepo(client), time.Minute, 2)
	mw := RateLimitMiddleware(limiter, zap.NewNop())

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do(); rr.Code != http.StatusNoContent {
			t.Fatalf("request %d should pass, got %d", i+1, rr.Code)
		}
	}

	blocked := do()
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", blocked.Code)
	}
}

func TestRateLimitMiddlewareFailsOpenOnStoreError(t *testing.T) {
	mini := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	limiter := ratesvc.NewLimiter(redrepo.NewRateRepo(client), time.Minute, 2)
	mini.Close()
	_ = client.Close()

	mw := RateLimitMiddleware(limiter, zap.NewNop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("limiter outage must not block requests, got %d", rr.Code)
	}
}
