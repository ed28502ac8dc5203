package recommendation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func parseRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler().RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postParse(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	parseRouter().ServeHTTP(resp, req)
	return resp
}

func TestParseEndpoint(t *testing.T) {
	resp := postParse(`{"text":"Intro line\nTops:\n• Boat necks\nShoes:\n- Loafers"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"sections":[
		{"title":"Tops","items":["Boat necks"]},
		{"title":"Shoes","items":["Loafers"]}
	]}`, resp.Body.String())
}

func TestParseEndpointEmptyText(t *testing.T) {
	resp := postParse(`{"text":""}`)

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"sections":[]}`, resp.Body.String())
}

func TestParseEndpointMissingText(t *testing.T) {
	resp := postParse(`{}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "validation_error")
}
