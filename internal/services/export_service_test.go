package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExporter(t *testing.T) (*ExportService, *ProgressService) {
	t.Helper()
	manifests := testManifests(t)
	pages := NewPageService(manifests)
	progress := NewProgressService()
	sitemap := NewSitemapService(manifests, "https://example.com", false)
	exporter := NewExportService(manifests, pages, sitemap, progress, "")
	t.Cleanup(exporter.Close)
	return exporter, progress
}

// pageFiles lists the page documents and leftover temp files under dir.
func pageFiles(t *testing.T, dir string) (pages, temps int) {
	t.Helper()
	err := filepath.WalkDir(filepath.Join(dir, "pages"), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
		case strings.HasSuffix(path, ".tmp"):
			temps++
		default:
			pages++
		}
		return nil
	})
	require.NoError(t, err)
	return pages, temps
}

func TestExportWritesCatalog(t *testing.T) {
	exporter, progress := newExporter(t)
	out := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	result, err := exporter.Export(context.Background(), models.ExportOptions{OutputDir: out, SQLitePath: dbPath, Concurrency: 4})
	require.NoError(t, err)

	assert.Equal(t, 104, result.TotalRoutes)
	assert.Equal(t, 102, result.Written)
	assert.ElementsMatch(t, []models.SkippedSlug{
		{Slug: "glossary/token", Reason: "insufficient sections (1 < 2)"},
		{Slug: "guides/ai-text-cleaner", Reason: "insufficient sections (1 < 2)"},
	}, result.Skipped)
	assert.Empty(t, result.Unknown)

	raw, err := os.ReadFile(filepath.Join(out, "pages", "glossary", "perplexity.json"))
	require.NoError(t, err)
	var page models.Page
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, "/glossary/perplexity", page.URL)

	assert.NoFileExists(t, filepath.Join(out, "pages", "glossary", "token.json"))
	assert.FileExists(t, filepath.Join(out, "sitemap.xml"))
	assert.FileExists(t, filepath.Join(out, "manifest.json"))

	tracker, ok := progress.GetTracker(result.TaskID)
	require.True(t, ok)
	snap := tracker.Snapshot()
	assert.Equal(t, TaskCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)

	stored, ok := exporter.Result(result.TaskID)
	require.True(t, ok)
	assert.Same(t, result, stored)

	store, err := storage.OpenCatalog(dbPath)
	require.NoError(t, err)
	defer store.Close()

	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{storage.PageStatusPublished: 102, storage.PageStatusSkipped: 2}, counts)

	fp, err := store.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, fp)

	collisions, err := store.PrimaryKeywordCollisions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"humanize chatgpt text": {"guides/humanize-chatgpt-text", "humanize-chatgpt-text"},
	}, collisions)
}

func TestExportRemovesStalePages(t *testing.T) {
	exporter, _ := newExporter(t)
	out := t.TempDir()
	stale := filepath.Join(out, "pages", "old-page.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

	_, err := exporter.Export(context.Background(), models.ExportOptions{OutputDir: out})
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestExportRequiresOutputDir(t *testing.T) {
	exporter, _ := newExporter(t)
	_, err := exporter.Export(context.Background(), models.ExportOptions{})
	assert.Error(t, err)
}

func TestStartExportReportsProgress(t *testing.T) {
	exporter, progress := newExporter(t)

	taskID := exporter.StartExport(context.Background(), models.ExportOptions{OutputDir: t.TempDir()})
	tracker, ok := progress.GetTracker(taskID)
	require.True(t, ok)

	select {
	case <-tracker.Done:
	case <-time.After(30 * time.Second):
		t.Fatal("export did not finish")
	}
	assert.Equal(t, TaskCompleted, tracker.Snapshot().Status)
	_, ok = exporter.Result(taskID)
	assert.True(t, ok)
}

func TestProgressTracker(t *testing.T) {
	progress := NewProgressService()
	tracker := progress.CreateTracker("t1")
	assert.Same(t, tracker, progress.CreateTracker("t1"))

	sub := tracker.Subscribe()
	first := <-sub
	assert.Equal(t, TaskRunning, first.Status)

	tracker.UpdateProgress(40, "working")
	tracker.UpdateProgress(10, "")
	update := <-sub
	assert.Equal(t, 40, update.Progress)
	update = <-sub
	assert.Equal(t, 40, update.Progress, "progress never goes backwards")

	tracker.Fail("disk full")
	tracker.Complete("ignored")
	update = <-sub
	assert.Equal(t, TaskFailed, update.Status)
	assert.Equal(t, "failed: disk full", update.Message)

	tracker.Unsubscribe(sub)
	tracker.Unsubscribe(sub)

	tracker.mutex.Lock()
	tracker.UpdateTime = time.Now().Add(-time.Hour)
	tracker.mutex.Unlock()
	progress.CleanupCompletedTasks(time.Minute)
	_, ok := progress.GetTracker("t1")
	assert.False(t, ok)
}

func TestConcurrentExportsIntoOneDirectory(t *testing.T) {
	exporter, _ := newExporter(t)
	out := t.TempDir()
	dbPath := filepath.Join(out, "catalog.db")

	for round := 0; round < 5; round++ {
		var wg sync.WaitGroup
		errs := make([]error, 2)
		results := make([]*models.ExportResult, 2)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = exporter.Export(context.Background(), models.ExportOptions{
					OutputDir:   out,
					SQLitePath:  dbPath,
					Concurrency: 4,
				})
			}()
		}
		wg.Wait()

		for i := range errs {
			require.NoError(t, errs[i], "round %d export %d", round, i)
			assert.Equal(t, 102, results[i].Written)
		}
		pages, temps := pageFiles(t, out)
		assert.Equal(t, 102, pages)
		assert.Zero(t, temps)
	}

	store, err := storage.OpenCatalog(dbPath)
	require.NoError(t, err)
	defer store.Close()
	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{storage.PageStatusPublished: 102, storage.PageStatusSkipped: 2}, counts)
}

func TestExportWaitsForWritersOnGenerationError(t *testing.T) {
	exporter, progress := newExporter(t)
	out := t.TempDir()

	generated := 0
	fallback := exporter.generate
	exporter.generate = func(catalog *Catalog, route models.Route) (*models.Page, error) {
		generated++
		if generated == 40 {
			return nil, apperrors.NewProcessingError("generator crashed", nil)
		}
		return fallback(catalog, route)
	}

	result, err := exporter.Export(context.Background(), models.ExportOptions{OutputDir: out, Concurrency: 8})
	require.Error(t, err)
	assert.Nil(t, result)

	before, temps := pageFiles(t, out)
	assert.Zero(t, temps)
	time.Sleep(50 * time.Millisecond)
	after, _ := pageFiles(t, out)
	assert.Equal(t, before, after, "no writer may still be running after Export returns")
	assert.NoFileExists(t, filepath.Join(out, "manifest.json"))

	progress.mutex.RLock()
	defer progress.mutex.RUnlock()
	require.Len(t, progress.trackers, 1)
	for _, tracker := range progress.trackers {
		assert.Equal(t, TaskFailed, tracker.Snapshot().Status)
	}
}

func TestPruneResults(t *testing.T) {
	exporter, _ := newExporter(t)

	result, err := exporter.Export(context.Background(), models.ExportOptions{OutputDir: t.TempDir()})
	require.NoError(t, err)

	assert.Zero(t, exporter.PruneResults(time.Minute))
	_, ok := exporter.Result(result.TaskID)
	assert.True(t, ok)

	exporter.mu.Lock()
	result.FinishedAt = time.Now().Add(-time.Hour)
	exporter.mu.Unlock()

	assert.Equal(t, 1, exporter.PruneResults(time.Minute))
	_, ok = exporter.Result(result.TaskID)
	assert.False(t, ok)
}

func TestPrerendered(t *testing.T) {
	manifests := testManifests(t)
	pages := NewPageService(manifests)
	sitemap := NewSitemapService(manifests, "https://example.com", false)
	out := t.TempDir()
	exporter := NewExportService(manifests, pages, sitemap, NewProgressService(), out)
	t.Cleanup(exporter.Close)

	_, ok := exporter.Prerendered("glossary/perplexity")
	assert.False(t, ok, "nothing exported yet")

	_, err := exporter.Export(context.Background(), models.ExportOptions{})
	require.NoError(t, err)

	page, ok := exporter.Prerendered("glossary/perplexity")
	require.True(t, ok)
	assert.Equal(t, "/glossary/perplexity", page.URL)

	raw, err := os.ReadFile(filepath.Join(out, "pages", "glossary", "perplexity.json"))
	require.NoError(t, err)
	var onDisk models.Page
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, onDisk, *page)

	_, ok = exporter.Prerendered("glossary/token")
	assert.False(t, ok, "skipped pages are not exported")
	_, ok = exporter.Prerendered("../manifest")
	assert.False(t, ok, "only manifest slugs are served")

	// an export of another manifest is not trusted
	fs, err := exporter.storageFor(out)
	require.NoError(t, err)
	require.NoError(t, fs.SaveJSON("manifest.json", map[string]string{"fingerprint": "other"}))
	_, ok = exporter.Prerendered("glossary/perplexity")
	assert.False(t, ok)
}
