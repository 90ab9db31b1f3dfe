package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute, "test-window")
	rl.now = func() time.Time { return now }

	for i := 1; i <= 2; i++ {
		if ok, _ := rl.isAllowed("1.2.3.4"); !ok {
			t.Fatalf("request %d rejected", i)
		}
	}

	now = now.Add(20 * time.Second)
	ok, remaining := rl.isAllowed("1.2.3.4")
	if ok {
		t.Error("third request in window allowed")
	}
	if remaining != 40*time.Second {
		t.Errorf("remaining = %v, want 40s", remaining)
	}

	if ok, _ := rl.isAllowed("5.6.7.8"); !ok {
		t.Error("other clients are limited separately")
	}

	now = now.Add(40 * time.Second)
	if ok, _ := rl.isAllowed("1.2.3.4"); !ok {
		t.Error("new window should reset the count")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute, "test-sweep")
	rl.now = func() time.Time { return now }

	rl.isAllowed("1.1.1.1")
	now = now.Add(90 * time.Second)
	rl.isAllowed("2.2.2.2")
	now = now.Add(45 * time.Second)

	if cleaned := rl.sweep(); cleaned != 1 {
		t.Errorf("cleaned = %d, want 1", cleaned)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(rateLimitMiddleware(NewRateLimiter(1, time.Minute, "test-mw")))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("X-RateLimit-Limit = %q, want 1", got)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
