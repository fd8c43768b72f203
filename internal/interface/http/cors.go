package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware lets browser frontends on the configured origins call the JSON API.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition", "X-Record-Count"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowed) == 0 || containsWildcard(allowed) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
	}
	return cors.New(cfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
