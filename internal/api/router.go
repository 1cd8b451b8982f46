// internal/api/router.go
package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solidwrite/pseo/internal/auth"
	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/di"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/solidwrite/pseo/internal/utils"
)

// SetupRouter builds the HTTP router from the services in the global container.
func SetupRouter() (*gin.Engine, error) {
	return NewRouter(di.GetContainer(), config.GetCurrentConfig())
}

// NewRouter builds the HTTP router. Services are only resolved from
// container, never created here.
func NewRouter(container *di.Container, cfg *config.Config) (*gin.Engine, error) {
	manifests, err := di.Resolve[*services.ManifestService](container, di.ServiceManifest)
	if err != nil {
		return nil, fmt.Errorf("manifest service not initialized: %w", err)
	}
	pages, err := di.Resolve[*services.PageService](container, di.ServicePage)
	if err != nil {
		return nil, fmt.Errorf("page service not initialized: %w", err)
	}
	batch, err := di.Resolve[*services.BatchService](container, di.ServiceBatch)
	if err != nil {
		return nil, fmt.Errorf("batch service not initialized: %w", err)
	}
	sitemap, err := di.Resolve[*services.SitemapService](container, di.ServiceSitemap)
	if err != nil {
		return nil, fmt.Errorf("sitemap service not initialized: %w", err)
	}
	exporter, err := di.Resolve[*services.ExportService](container, di.ServiceExport)
	if err != nil {
		return nil, fmt.Errorf("export service not initialized: %w", err)
	}
	progress, err := di.Resolve[*services.ProgressService](container, di.ServiceProgress)
	if err != nil {
		return nil, fmt.Errorf("progress service not initialized: %w", err)
	}

	handler := NewHandler(manifests, pages, batch, sitemap, exporter, progress, cfg.ExportDir)
	handler.ServePrerendered = cfg.ServePrerendered

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(corsMiddleware())
	r.Use(LoggingMiddleware(utils.GetLogger()))
	r.Use(MetricsMiddleware(handler.Metrics))

	// ===============================
	// pages
	// ===============================
	r.GET("/p/*slug", handler.RenderPage)
	r.GET("/sitemap.xml", handler.GetSitemap)

	// WebSocket
	r.GET("/ws/export/:task_id", handler.ExportProgressSocket)

	// ===============================
	// JSON API
	// ===============================
	limiter := NewRateLimiter()

	api := r.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/metrics", handler.GetMetrics)

		api.GET("/routes", handler.GetRoutes)
		api.GET("/pages/*slug", handler.GetPage)
		api.GET("/batch", RateLimitByIP(limiter, cfg.BatchRateLimit, time.Minute), handler.GetBatch)

		api.POST("/export", RequireScope(auth.NewTokenConfig(cfg.AdminTokenSecret, cfg.AdminTokenTTL), auth.ScopeExport), handler.StartExport)
		api.GET("/export/:task_id", handler.GetExport)
	}

	return r, nil
}
