// internal/services/export_service.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/storage"
	"github.com/solidwrite/pseo/internal/utils"
	"golang.org/x/sync/errgroup"
)

// DefaultExportConcurrency bounds parallel file and catalog writes.
const DefaultExportConcurrency = 8

const manifestFile = "manifest.json"

// manifestDocument is the manifest.json written next to the pages.
type manifestDocument struct {
	Fingerprint string         `json:"fingerprint"`
	GeneratedAt time.Time      `json:"generated_at"`
	Routes      []models.Route `json:"routes"`
}

// ExportService pre-renders the whole catalog to disk: one JSON document per
// admissible page, the sitemap, the manifest, and optionally a SQLite catalog.
type ExportService struct {
	manifests  *ManifestService
	pages      *PageService
	sitemap    *SitemapService
	progress   *ProgressService
	defaultDir string

	// exports into the same directory or database run one at a time
	locks *LockManager

	// generate defaults to the page service; tests replace it
	generate func(catalog *Catalog, route models.Route) (*models.Page, error)

	storesMu sync.Mutex
	stores   map[string]*storage.FileStorage

	mu      sync.RWMutex
	results map[string]*models.ExportResult

	metrics *utils.MetricsCollector
	logger  *utils.Logger
}

// NewExportService creates an exporter writing to defaultDir unless the
// options name another directory.
func NewExportService(manifests *ManifestService, pages *PageService, sitemap *SitemapService, progress *ProgressService, defaultDir string) *ExportService {
	s := &ExportService{
		manifests:  manifests,
		pages:      pages,
		sitemap:    sitemap,
		progress:   progress,
		defaultDir: defaultDir,
		locks:      NewLockManager(0),
		stores:     make(map[string]*storage.FileStorage),
		results:    make(map[string]*models.ExportResult),
		metrics:    utils.GetMetricsCollector(),
		logger:     utils.GetLogger(),
	}
	s.generate = pages.generate
	return s
}

// Close stops the lock janitor and the storage caches.
func (s *ExportService) Close() {
	s.locks.Stop()

	s.storesMu.Lock()
	defer s.storesMu.Unlock()
	for dir, fs := range s.stores {
		fs.Close()
		delete(s.stores, dir)
	}
}

// storageFor returns the shared storage of dir, so that reads of exported
// pages see the cache invalidations of later exports.
func (s *ExportService) storageFor(dir string) (*storage.FileStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	s.storesMu.Lock()
	defer s.storesMu.Unlock()
	if fs, ok := s.stores[abs]; ok {
		return fs, nil
	}
	fs, err := storage.NewFileStorage(abs)
	if err != nil {
		return nil, err
	}
	s.stores[abs] = fs
	return fs, nil
}

// PageFile is the storage path of a page document.
func PageFile(slug string) string {
	return "pages/" + slug + ".json"
}

// StartExport runs an export in the background and returns its task ID.
// Progress is published through the ProgressService under that ID.
func (s *ExportService) StartExport(ctx context.Context, opts models.ExportOptions) string {
	taskID := uuid.NewString()
	tracker := s.progress.CreateTracker(taskID)

	go func() {
		if _, err := s.run(ctx, taskID, tracker, opts); err != nil {
			s.logger.Error("export failed", map[string]interface{}{"task_id": taskID, "error": err.Error()})
		}
	}()

	return taskID
}

// Export runs an export synchronously.
func (s *ExportService) Export(ctx context.Context, opts models.ExportOptions) (*models.ExportResult, error) {
	taskID := uuid.NewString()
	return s.run(ctx, taskID, s.progress.CreateTracker(taskID), opts)
}

// Result returns the summary of a finished export.
func (s *ExportService) Result(taskID string) (*models.ExportResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[taskID]
	return r, ok
}

// PruneResults forgets summaries of exports that finished more than maxAge ago.
func (s *ExportService) PruneResults(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for taskID, result := range s.results {
		if result.FinishedAt.Before(cutoff) {
			delete(s.results, taskID)
			pruned++
		}
	}
	return pruned
}

// Prerendered returns the exported document of slug from the default export
// directory. It only answers when that directory was exported from the
// current manifest and the page file exists.
func (s *ExportService) Prerendered(slug string) (*models.Page, bool) {
	if s.defaultDir == "" {
		return nil, false
	}
	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, false
	}
	route, ok := catalog.Find(slug)
	if !ok {
		return nil, false
	}
	fs, err := s.storageFor(s.defaultDir)
	if err != nil {
		return nil, false
	}

	var header struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := fs.LoadJSON(manifestFile, &header); err != nil || header.Fingerprint != catalog.Fingerprint {
		return nil, false
	}
	var page models.Page
	if err := fs.LoadJSON(PageFile(route.Slug), &page); err != nil {
		return nil, false
	}

	s.metrics.IncrementCounter(utils.MetricPrerenderedServed)
	return &page, true
}

func (s *ExportService) run(ctx context.Context, taskID string, tracker *ProgressTracker, opts models.ExportOptions) (*models.ExportResult, error) {
	result, err := s.export(ctx, taskID, tracker, opts)
	if err != nil {
		tracker.Fail(err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.results[taskID] = result
	s.mu.Unlock()

	tracker.Complete(fmt.Sprintf("exported %d pages, skipped %d", result.Written, len(result.Skipped)))
	return result, nil
}

func (s *ExportService) export(ctx context.Context, taskID string, tracker *ProgressTracker, opts models.ExportOptions) (*models.ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = s.defaultDir
	}
	if opts.OutputDir == "" {
		return nil, errors.NewValidationError("export output directory is required", nil)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultExportConcurrency
	}

	dir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", opts.OutputDir, err)
	}

	var result *models.ExportResult
	write := func() error {
		var err error
		result, err = s.write(ctx, taskID, tracker, opts)
		return err
	}

	// directory lock before database lock, always in this order
	err = s.locks.ExecuteWithLock("dir:"+dir, func() error {
		if opts.SQLitePath == "" {
			return write()
		}
		db, err := filepath.Abs(opts.SQLitePath)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", opts.SQLitePath, err)
		}
		return s.locks.ExecuteWithLock("db:"+db, write)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// write runs one export. The caller holds the locks of its output directory
// and database.
func (s *ExportService) write(ctx context.Context, taskID string, tracker *ProgressTracker, opts models.ExportOptions) (*models.ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}

	fs, err := s.storageFor(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	var store *storage.CatalogStore
	if opts.SQLitePath != "" {
		if store, err = storage.OpenCatalog(opts.SQLitePath); err != nil {
			return nil, err
		}
		defer store.Close()
		if err := store.Reset(ctx, catalog.Fingerprint); err != nil {
			return nil, err
		}
	}

	// stale pages from an earlier manifest must not survive
	if err := fs.DeleteDir("pages"); err != nil {
		return nil, err
	}

	result := &models.ExportResult{
		TaskID:      taskID,
		OutputDir:   opts.OutputDir,
		SQLitePath:  opts.SQLitePath,
		Fingerprint: catalog.Fingerprint,
		TotalRoutes: len(catalog.Routes),
		StartedAt:   time.Now(),
	}

	s.logger.Info("export started", map[string]interface{}{
		"task_id":     taskID,
		"output_dir":  opts.OutputDir,
		"routes":      result.TotalRoutes,
		"fingerprint": catalog.Fingerprint,
		"sqlite":      opts.SQLitePath != "",
	})

	var written, processed atomic.Int64
	total := int64(len(catalog.Routes))
	report := func() {
		done := processed.Add(1)
		tracker.UpdateProgress(int(done*95/max(total, 1)), fmt.Sprintf("%d/%d routes", done, total))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	// generation stays on this goroutine so link sampling follows manifest order
	var genErr error
routes:
	for _, route := range catalog.Routes {
		if gctx.Err() != nil {
			break
		}

		page, err := s.generate(catalog, route)
		switch {
		case errors.IsThinContentError(err):
			reason := errors.SkipReason(err)
			result.Skipped = append(result.Skipped, models.SkippedSlug{Slug: route.Slug, Reason: reason})
			if store != nil {
				g.Go(func() error {
					defer report()
					return store.SaveSkipped(gctx, route, reason)
				})
			} else {
				report()
			}
			continue
		case errors.IsUnknownPlaybookError(err):
			result.Unknown = append(result.Unknown, route.Slug)
			report()
			continue
		case err != nil:
			genErr = err
			break routes
		}

		g.Go(func() error {
			defer report()
			if err := fs.SaveJSON(PageFile(route.Slug), page); err != nil {
				return err
			}
			if store != nil {
				if err := store.SavePage(gctx, route, page); err != nil {
					return err
				}
			}
			written.Add(1)
			s.metrics.IncrementCounter(utils.MetricExportPagesWritten)
			return nil
		})
	}

	// writers must be done before the deferred store close, whatever the outcome
	waitErr := g.Wait()
	if genErr != nil {
		return nil, genErr
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.sitemap.Project()
	if err != nil {
		return nil, err
	}
	sitemapXML, err := EncodeSitemap(entries)
	if err != nil {
		return nil, err
	}
	if err := fs.SaveFile("sitemap.xml", sitemapXML); err != nil {
		return nil, err
	}
	if err := fs.SaveJSON(manifestFile, manifestDocument{
		Fingerprint: catalog.Fingerprint,
		GeneratedAt: result.StartedAt,
		Routes:      catalog.Routes,
	}); err != nil {
		return nil, err
	}

	result.Written = int(written.Load())
	result.FinishedAt = time.Now()

	s.logger.Info("export finished", map[string]interface{}{
		"task_id":     taskID,
		"written":     result.Written,
		"skipped":     len(result.Skipped),
		"unknown":     len(result.Unknown),
		"duration_ms": result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	})

	return result, nil
}
