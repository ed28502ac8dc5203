package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/shared/server/respond"
	"outfit-backend/internal/shared/util"
)

const clientIDKey = "clientId"

// APIKey accepts a key from the "apikey" header or a bearer token and stores a
// derived client ID in context. With no keys configured every caller is
// admitted and identified by IP.
func APIKey(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			allowed = append(allowed, []byte(trimmed))
		}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := presentedKey(c)
		if len(allowed) == 0 {
			if key != "" {
				c.Set(clientIDKey, clientIDForKey(key))
			} else {
				c.Set(clientIDKey, "ip:"+c.ClientIP())
			}
			c.Next()
			return
		}

		if key == "" || !keyAllowed(allowed, key) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid api key", nil)
			return
		}
		c.Set(clientIDKey, clientIDForKey(key))
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by the APIKey middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(clientIDKey)
}

func presentedKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader("apikey")); key != "" {
		return key
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > len("Bearer ") && strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func keyAllowed(allowed [][]byte, key string) bool {
	presented := []byte(key)
	for _, k := range allowed {
		if subtle.ConstantTimeCompare(k, presented) == 1 {
			return true
		}
	}
	return false
}

func clientIDForKey(key string) string {
	return "key:" + util.HashKey(key)[:12]
}
