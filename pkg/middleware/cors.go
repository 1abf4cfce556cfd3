package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the JSON API to be called from the listed origins.
// With no origins configured every origin is allowed.
func CORS(allowedOrigins ...string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       10 * time.Minute,
	}

	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			config.AllowOrigins = append(config.AllowOrigins, o)
		}
	}
	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}

	return cors.New(config)
}
