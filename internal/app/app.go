// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/di"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/solidwrite/pseo/internal/utils"
)

// progressRetention is how long finished export trackers stay queryable.
const progressRetention = 30 * time.Minute

// InitServices builds every service from the current config and registers
// it in the global container, in dependency order.
func InitServices() error {
	return InitServicesWith(di.GetContainer(), config.GetCurrentConfig())
}

// InitServicesWith wires services into container from cfg.
func InitServicesWith(container *di.Container, cfg *config.Config) error {
	logger := utils.GetLogger()
	if cfg.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	}

	manifests, err := services.NewManifestService(services.ManifestOptions{
		DimensionsFile: cfg.DimensionsFile,
		LinkSeed:       cfg.LinkSeed,
		CacheSize:      cfg.ManifestCacheSize,
		CacheTTL:       cfg.ManifestCacheTTL,
	})
	if err != nil {
		return fmt.Errorf("manifest service: %w", err)
	}

	// build once at startup so configuration errors surface now
	catalog, err := manifests.Current()
	if err != nil {
		manifests.Close()
		return fmt.Errorf("initial manifest: %w", err)
	}

	pages := services.NewPageService(manifests)
	batch := services.NewBatchService(manifests, pages, cfg.GlobalKeywordDedup)
	sitemap := services.NewSitemapService(manifests, cfg.SiteURL, cfg.SitemapExcludeSkipped)
	progress := services.NewProgressService()
	exporter := services.NewExportService(manifests, pages, sitemap, progress, cfg.ExportDir)

	container.Register(di.ServiceConfig, cfg)
	container.Register(di.ServiceManifest, manifests)
	container.Register(di.ServicePage, pages)
	container.Register(di.ServiceBatch, batch)
	container.Register(di.ServiceSitemap, sitemap)
	container.Register(di.ServiceProgress, progress)
	container.Register(di.ServiceExport, exporter)

	logger.Info("services initialized", map[string]interface{}{
		"routes":               len(catalog.Routes),
		"fingerprint":          catalog.Fingerprint,
		"dimensions_file":      cfg.DimensionsFile,
		"global_keyword_dedup": cfg.GlobalKeywordDedup,
		"sitemap_skip_thin":    cfg.SitemapExcludeSkipped,
	})
	return nil
}

// InitLogging points the global logger at LOG_DIR.
func InitLogging(cfg *config.Config) error {
	if cfg.LogDir == "" {
		return nil
	}
	return utils.InitLogger(filepath.Join(cfg.LogDir, "pseo.log"))
}

// RunMaintenance periodically drops finished export trackers until ctx ends.
func RunMaintenance(ctx context.Context, container *di.Container) {
	progress, err := di.Resolve[*services.ProgressService](container, di.ServiceProgress)
	if err != nil {
		return
	}
	exporter, err := di.Resolve[*services.ExportService](container, di.ServiceExport)
	if err != nil {
		return
	}

	ticker := time.NewTicker(progressRetention / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			Maintain(progress, exporter)
		case <-ctx.Done():
			return
		}
	}
}

// Maintain drops finished export trackers and their results together, so a
// result never outlives the tracker GET /api/export/:task_id looks up first.
func Maintain(progress *services.ProgressService, exporter *services.ExportService) {
	progress.CleanupCompletedTasks(progressRetention)
	exporter.PruneResults(progressRetention)
}

// Shutdown releases service resources and flushes logs.
func Shutdown(container *di.Container) {
	if exporter, err := di.Resolve[*services.ExportService](container, di.ServiceExport); err == nil {
		exporter.Close()
	}
	if manifests, err := di.Resolve[*services.ManifestService](container, di.ServiceManifest); err == nil {
		manifests.Close()
	}
	_ = utils.GetLogger().Sync()
}
