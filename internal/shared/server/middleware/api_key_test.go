package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/telemetry"
)

func keyRouter(keys []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKey(keys))
	handler := func(c *gin.Context) {
		c.String(http.StatusOK, ClientIDFromContext(c))
	}
	router.POST("/functions/v1/generate-outfit", handler)
	router.OPTIONS("/functions/v1/generate-outfit", handler)
	return router
}

func TestAPIKeyAllowsOptionsWithoutKey(t *testing.T) {
	router := keyRouter([]string{"secret"})

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/generate-outfit", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAPIKeyRejectsMissingOrWrongKey(t *testing.T) {
	defer telemetry.SetOutput(io.Discard)()
	router := keyRouter([]string{"secret"})

	for _, header := range []string{"", "Bearer nope", "Basic secret"} {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-outfit", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestAPIKeyAcceptsHeaderAndBearer(t *testing.T) {
	router := keyRouter([]string{"other", "secret"})

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-outfit", nil)
	req.Header.Set("apikey", "secret")
	viaHeader := httptest.NewRecorder()
	router.ServeHTTP(viaHeader, req)

	req = httptest.NewRequest(http.MethodPost, "/functions/v1/generate-outfit", nil)
	req.Header.Set("Authorization", "Bearer secret")
	viaBearer := httptest.NewRecorder()
	router.ServeHTTP(viaBearer, req)

	if viaHeader.Code != http.StatusOK || viaBearer.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", viaHeader.Code, viaBearer.Code)
	}
	id := viaHeader.Body.String()
	if !strings.HasPrefix(id, "key:") || len(id) != len("key:")+12 {
		t.Fatalf("unexpected client id %q", id)
	}
	if viaBearer.Body.String() != id {
		t.Fatalf("expected same client id for same key, got %q and %q", id, viaBearer.Body.String())
	}
	if strings.Contains(id, "secret") {
		t.Fatalf("client id leaks key: %q", id)
	}
}

func TestAPIKeyOpenModeUsesIP(t *testing.T) {
	router := keyRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-outfit", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "ip:203.0.113.7" {
		t.Fatalf("unexpected client id %q", got)
	}
}
