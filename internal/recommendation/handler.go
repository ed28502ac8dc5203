package recommendation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/server/respond"
)

// Handler exposes the section parser over HTTP.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations/parse", h.parse)
}

type parseRequest struct {
	Text *string `json:"text" binding:"required"`
}

type parseResponse struct {
	Sections []Section `json:"sections"`
}

func (h *Handler) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	respond.OK(c, parseResponse{Sections: ParseSections(*req.Text)})
}
