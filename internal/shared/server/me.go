package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/server/middleware"
	"outfit-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint, which echoes how the caller was identified.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

func meHandler(c *gin.Context) {
	clientID := middleware.ClientIDFromContext(c)
	if clientID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid api key", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"clientId":  clientID,
		"requestId": middleware.RequestIDFromContext(c),
	})
}
