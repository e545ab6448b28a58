package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/geofence_resolver/internal/config"
	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

// APIKeyAuthMiddleware пропускает запросы с ключом из API_KEYS.
// Ключ берётся из X-API-Key, иначе из Authorization: Bearer.
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key != "" {
			allowed = append(allowed, []byte(key))
		}
	}

	return func(c *gin.Context) {
		entry := log.WithFields(logrus.Fields{
			"component": "auth",
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"client_ip": c.ClientIP(),
		})

		presented := requestAPIKey(c)
		if presented == "" {
			entry.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !keyAllowed(allowed, []byte(presented)) {
			// Сам ключ в лог не пишем
			entry.WithField("key_length", len(presented)).Warn("Rejected request with unknown API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

func requestAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}

// keyAllowed сравнивает со всеми ключами за постоянное время, без раннего выхода
func keyAllowed(allowed [][]byte, presented []byte) bool {
	match := 0
	for _, key := range allowed {
		match |= subtle.ConstantTimeCompare(key, presented)
	}
	return match == 1
}
