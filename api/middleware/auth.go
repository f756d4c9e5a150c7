package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pcstats/api/handler"
	"github.com/use-agent/pcstats/models"
)

// identityKey is the context key under which Auth stores the caller's key.
const identityKey = "api_key"

var (
	errMissingKey = models.NewScrapeError(models.ErrCodeUnauthorized,
		"missing API key: provide X-API-Key header or Authorization: Bearer <key>", nil)
	errInvalidKey = models.NewScrapeError(models.ErrCodeUnauthorized, "invalid API key", nil)
)

// Auth returns API-key authentication middleware.
//
// Supports two header styles:
//
//	X-API-Key: <key>
//	Authorization: Bearer <key>
//
// With no keys configured every request passes.
func Auth(apiKeys []string) gin.HandlerFunc {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := requestKey(c)
		switch _, ok := keys[key]; {
		case key == "":
			handler.Abort(c, errMissingKey)
		case !ok:
			handler.Abort(c, errInvalidKey)
		default:
			c.Set(identityKey, key)
			c.Next()
		}
	}
}

func requestKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
