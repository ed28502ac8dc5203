package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/services/health"
	"outfit-backend/internal/shared/config"
	"outfit-backend/internal/shared/metrics"
	"outfit-backend/internal/shared/server/middleware"
	"outfit-backend/internal/shared/server/respond"
)

const generationGroup = "GENERATION"

// RouteRegistrar is satisfied by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// OutfitsRegistrar mounts the provider endpoint under /functions/v1 and the
// public image route next to the API.
type OutfitsRegistrar interface {
	RouteRegistrar
	RegisterProviderRoutes(rg *gin.RouterGroup)
	RegisterImageRoutes(rg *gin.RouterGroup)
}

// RouterDeps are the handlers NewRouter mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config                config.Config
	OutfitsHandler        OutfitsRegistrar
	StyleGuideHandler     RouteRegistrar
	BodyShapeHandler      RouteRegistrar
	RecommendationHandler RouteRegistrar
	Health                *health.Service
	Limiter               *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())
	r.GET("/api/v1/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	guarded := []gin.HandlerFunc{
		middleware.APIKey(cfg.ProviderAPIKeys),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":       {Rate: cfg.RateLimit.DefaultRPS, Burst: cfg.RateLimit.DefaultBurst},
				generationGroup: {Rate: cfg.RateLimit.GenerationRPS, Burst: cfg.RateLimit.GenerationBurst},
			},
			GroupFor: groupFor,
			Limiter:  deps.Limiter,
		}),
	}

	functions := r.Group("/functions/v1", guarded...)
	api := r.Group("/api/v1", guarded...)

	registerMeRoutes(api)
	if deps.OutfitsHandler != nil {
		deps.OutfitsHandler.RegisterProviderRoutes(functions)
		deps.OutfitsHandler.RegisterRoutes(api)
		deps.OutfitsHandler.RegisterImageRoutes(r.Group("/api/v1"))
	}
	for _, h := range []RouteRegistrar{deps.StyleGuideHandler, deps.BodyShapeHandler, deps.RecommendationHandler} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
	return r
}

func groupFor(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	if strings.HasSuffix(path, "/generate-outfit") || strings.HasSuffix(path, "/style-guides") {
		return generationGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
