package outfits

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/server/middleware"
	"outfit-backend/internal/shared/server/respond"
	"outfit-backend/internal/shared/storage/object"
)

const maxServedImageBytes = 20 << 20

// Handler wires HTTP handlers to the outfits service.
type Handler struct {
	Svc *Service
	// Images serves stored images back; set only for stores without their own URLs.
	Images object.ImageStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, images object.ImageStore) *Handler {
	return &Handler{Svc: svc, Images: images}
}

// RegisterProviderRoutes attaches the provider endpoint, which answers with flat errors.
func (h *Handler) RegisterProviderRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-outfit", h.generate)
}

// RegisterRoutes attaches ledger routes to the API group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/generations", h.listGenerations)
}

// RegisterImageRoutes serves stored images. Browsers fetch these from <img>
// tags, so the group should not require an API key.
func (h *Handler) RegisterImageRoutes(rg *gin.RouterGroup) {
	if h.Images != nil {
		rg.GET("/images/*key", h.image)
	}
}

func (h *Handler) generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Message(c, http.StatusBadRequest, "request body must be JSON with bodyShape and gender")
		return
	}
	c.Set(middleware.BodyShapeKey, req.BodyShape)

	resp, err := h.Svc.Generate(c.Request.Context(), middleware.ClientIDFromContext(c), req)
	if err != nil {
		status, msg := errorResponse(err)
		respond.Message(c, status, msg)
		return
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	respond.OK(c, resp)
}

func errorResponse(err error) (int, string) {
	var pe *ProviderError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, MessageRateLimited
	case errors.Is(err, ErrQuotaExhausted):
		return http.StatusPaymentRequired, MessageQuotaExhausted
	case errors.Is(err, ErrNotConfigured):
		return http.StatusInternalServerError, MessageNotConfigured
	case errors.As(err, &pe):
		return http.StatusInternalServerError, pe.Message
	default:
		return http.StatusInternalServerError, MessageUnexpected
	}
}

func (h *Handler) listGenerations(c *gin.Context) {
	limit, offset := 0, 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
			return
		}
		limit = parsed
	}
	if v := c.Query("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be an integer", nil)
			return
		}
		offset = parsed
	}

	records, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list generations", nil)
		return
	}
	respond.OK(c, gin.H{"generations": records})
}

func (h *Handler) image(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	rc, err := h.Images.Open(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrInvalidKey):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid image key", nil)
		case errors.Is(err, fs.ErrNotExist):
			respond.Error(c, http.StatusNotFound, "not_found", "image not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open image", nil)
		}
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxServedImageBytes))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read image", nil)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
