package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limitedRouter(t *testing.T, limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(clientIDKey, c.GetHeader("X-Test-Client"))
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/functions/v1/generate-outfit" {
				return "GENERATION"
			}
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules:   rules,
	}))
	r.POST("/functions/v1/generate-outfit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/body-shapes/classify", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func serve(r http.Handler, path, client string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Test-Client", client)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitGroupsAreIndependent(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(t, NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"DEFAULT":    {Rate: 5, Burst: 10},
		"GENERATION": {Rate: 0.2, Burst: 2},
	})

	for i := 0; i < 2; i++ {
		if resp := serve(r, "/functions/v1/generate-outfit", "key:a"); resp.Code != http.StatusOK {
			t.Fatalf("generation request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := serve(r, "/functions/v1/generate-outfit", "key:a"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("generation request 3 expected 429, got %d", resp.Code)
	}
	for i := 0; i < 3; i++ {
		if resp := serve(r, "/api/v1/body-shapes/classify", "key:a"); resp.Code != http.StatusOK {
			t.Fatalf("default request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := serve(r, "/functions/v1/generate-outfit", "key:b"); resp.Code != http.StatusOK {
		t.Fatalf("other client expected 200, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := limitedRouter(t, NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"DEFAULT": {Rate: 0.5, Burst: 1},
	})

	if resp := serve(r, "/api/v1/body-shapes/classify", "key:a"); resp.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.Code)
	}
	resp := serve(r, "/api/v1/body-shapes/classify", "key:a")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Fatalf("expected error=rate_limited")
	}
	if payload["retryAfterMs"] != float64(2000) {
		t.Fatalf("expected retryAfterMs 2000, got %v", payload["retryAfterMs"])
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	if ok, wait := limiter.Allow("k", rule); ok || wait != time.Second {
		t.Fatalf("expected denial with 1s wait, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected call allowed after refill")
	}
}

func TestRateLimiterDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 5; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{}); !ok {
			t.Fatalf("expected zero rule to allow")
		}
	}
}
