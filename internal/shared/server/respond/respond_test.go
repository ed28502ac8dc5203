package respond

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/telemetry"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()

	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "invalid_request", "bad input", []string{"waist"})
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "invalid_request" || body.Error.Message != "bad input" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestMessageIsFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	defer telemetry.SetOutput(io.Discard)()

	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		Message(c, http.StatusPaymentRequired, "AI credits exhausted. Please add more credits.")
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "AI credits exhausted. Please add more credits." || len(body) != 1 {
		t.Fatalf("unexpected body: %v", body)
	}
}
