package styleflow

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"outfit-backend/internal/bodyshape"
	"outfit-backend/internal/outfits"
	"outfit-backend/internal/recommendation"
	"outfit-backend/internal/shared/server/middleware"
	"outfit-backend/internal/shared/server/respond"
)

// Handler runs the style-guide flow server side.
type Handler struct {
	Flow *Flow
}

// NewHandler constructs a Handler.
func NewHandler(flow *Flow) *Handler {
	return &Handler{Flow: flow}
}

// RegisterRoutes attaches style-guide routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/style-guides", h.create)
}

type styleGuideRequest struct {
	Gender   string  `json:"gender" binding:"required"`
	Shoulder float64 `json:"shoulder" binding:"required,gt=0"`
	Bust     float64 `json:"bust" binding:"required,gt=0"`
	Waist    float64 `json:"waist" binding:"required,gt=0"`
	Hip      float64 `json:"hip" binding:"required,gt=0"`
	Height   float64 `json:"height" binding:"required,gt=0"`
}

type styleGuideResponse struct {
	BodyShape      bodyshape.Shape          `json:"bodyShape"`
	Description    string                   `json:"description"`
	Ratios         bodyshape.Ratios         `json:"ratios"`
	Recommendation string                   `json:"recommendation"`
	Sections       []recommendation.Section `json:"sections"`
	Images         []string                 `json:"images"`
	Stages         []string                 `json:"stages"`
}

type fieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func (h *Handler) create(c *gin.Context) {
	var req styleGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid measurements", bindingIssues(err))
		return
	}
	gender, err := bodyshape.ParseGender(req.Gender)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid measurements", []fieldIssue{{Field: "gender", Issue: "oneof"}})
		return
	}

	var trail []string
	observe := func(s Stage) { trail = append(trail, s.String()) }
	result, err := h.Flow.Run(c.Request.Context(), middleware.ClientIDFromContext(c), bodyshape.Measurements{
		Gender:   gender,
		Shoulder: req.Shoulder,
		Bust:     req.Bust,
		Waist:    req.Waist,
		Hip:      req.Hip,
		Height:   req.Height,
	}, observe)
	c.Set(middleware.StatusTransitionKey, StageIdle.String()+"->"+strings.Join(trail, "->"))
	if err != nil {
		status, code := errorStatus(err)
		respond.Error(c, status, code, UserMessage(err), gin.H{"stages": trail})
		return
	}
	c.Set(middleware.BodyShapeKey, string(result.BodyShape))

	respond.OK(c, styleGuideResponse{
		BodyShape:      result.BodyShape,
		Description:    result.Description(),
		Ratios:         result.Ratios,
		Recommendation: result.Recommendation,
		Sections:       result.Sections(),
		Images:         result.Images,
		Stages:         trail,
	})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidMeasurements):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, outfits.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, outfits.ErrQuotaExhausted):
		return http.StatusPaymentRequired, "quota_exhausted"
	case errors.Is(err, outfits.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not_configured"
	default:
		return http.StatusBadGateway, "provider_failed"
	}
}

func bindingIssues(err error) []fieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldIssue{{Field: "body", Issue: "malformed"}}
	}
	out := make([]fieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldIssue{Field: strings.ToLower(fe.Field()), Issue: fe.Tag()})
	}
	return out
}
