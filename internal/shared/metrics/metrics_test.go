package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(generationsTotal.WithLabelValues(OutcomeRateLimited))
	IncGeneration(OutcomeRateLimited)
	IncGeneration(OutcomeRateLimited)
	require.Equal(t, before+2, testutil.ToFloat64(generationsTotal.WithLabelValues(OutcomeRateLimited)))

	before = testutil.ToFloat64(classificationsTotal.WithLabelValues("Pear"))
	IncClassification("Pear")
	require.Equal(t, before+1, testutil.ToFloat64(classificationsTotal.WithLabelValues("Pear")))

	before = testutil.ToFloat64(imagesTotal.WithLabelValues(ImageFailed))
	IncImage(ImageFailed)
	require.Equal(t, before+1, testutil.ToFloat64(imagesTotal.WithLabelValues(ImageFailed)))
}

func TestHandlerRendersRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncGeneration(OutcomeSuccess)
	ObserveGenerationDuration(1500 * time.Millisecond)

	router := gin.New()
	router.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	require.True(t, strings.Contains(body, `outfit_generations_total{outcome="success"}`), body)
	require.Contains(t, body, "outfit_generation_duration_ms_bucket")
	require.Contains(t, body, "go_goroutines")
}
