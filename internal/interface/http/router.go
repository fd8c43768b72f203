package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/crop-advisor/internal/domain/admin"
	"github.com/yanqian/crop-advisor/internal/infra/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, page *PageHandler, adminSvc admin.Service, limiter *RateLimiter) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl")))
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
	)

	router.GET("/", page.Show)
	router.POST("/", page.Submit)
	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/fields", handler.Fields)
		api.GET("/crops", handler.Crops)
		api.GET("/crops/popular", handler.Popular)
		api.POST("/recommendations", rateLimitMiddleware(limiter, handler.logger), handler.Recommend)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(adminMiddleware(adminSvc))
	{
		adminGroup.GET("/history", handler.History)
		adminGroup.GET("/history/export", handler.ExportHistory)
		adminGroup.POST("/history/archive", handler.ArchiveHistory)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
