package bodyshape

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/metrics"
	"outfit-backend/internal/shared/server/middleware"
	"outfit-backend/internal/shared/server/respond"
)

// Handler serves shape descriptions and stateless classification.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// RegisterRoutes attaches body-shape routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/body-shapes", h.list)
	rg.POST("/body-shapes/classify", h.classify)
}

type shapeInfo struct {
	Shape       Shape  `json:"shape"`
	Description string `json:"description"`
}

type classifyResponse struct {
	Shape       Shape  `json:"shape"`
	Description string `json:"description"`
	Ratios      Ratios `json:"ratios"`
}

func (h *Handler) list(c *gin.Context) {
	shapes := AllShapes()
	out := make([]shapeInfo, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, shapeInfo{Shape: s, Description: Describe(s)})
	}
	respond.OK(c, gin.H{"shapes": out})
}

func (h *Handler) classify(c *gin.Context) {
	var m Measurements
	if err := c.ShouldBindJSON(&m); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be JSON measurements", nil)
		return
	}
	gender, err := ParseGender(string(m.Gender))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	m.Gender = gender
	if err := m.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	shape := Classify(m)
	metrics.IncClassification(string(shape))
	c.Set(middleware.BodyShapeKey, string(shape))
	respond.OK(c, classifyResponse{
		Shape:       shape,
		Description: Describe(shape),
		Ratios:      ComputeRatios(m),
	})
}
