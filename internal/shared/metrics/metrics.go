package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeRateLimited   = "rate_limited"
	OutcomeQuotaExceeded = "quota_exhausted"
	OutcomeFailed        = "failed"
)

// Image call results.
const (
	ImageOK     = "ok"
	ImageFailed = "failed"
	ImageEmpty  = "empty"
)

var (
	registry = prometheus.NewRegistry()

	classificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bodyshape_classifications_total",
		Help: "Body shape classifications by resulting shape.",
	}, []string{"shape"})

	generationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outfit_generations_total",
		Help: "Recommendation generations by outcome.",
	}, []string{"outcome"})

	imagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outfit_images_total",
		Help: "Outfit image calls by result.",
	}, []string{"result"})

	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outfit_generation_duration_ms",
		Help:    "Recommendation generation duration in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		classificationsTotal,
		generationsTotal,
		imagesTotal,
		generationDuration,
	)
}

// IncClassification counts a classification result.
func IncClassification(shape string) {
	classificationsTotal.WithLabelValues(shape).Inc()
}

// IncGeneration counts a generation with the given outcome.
func IncGeneration(outcome string) {
	generationsTotal.WithLabelValues(outcome).Inc()
}

// IncImage counts one image call result.
func IncImage(result string) {
	imagesTotal.WithLabelValues(result).Inc()
}

// ObserveGenerationDuration records how long a generation took.
func ObserveGenerationDuration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	generationDuration.Observe(ms)
}

// Registry exposes the registry backing Handler.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
