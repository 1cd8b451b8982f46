package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/solidwrite/pseo/internal/config"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditDefaultCatalog(t *testing.T) {
	catalog, err := testManifests(t).Current()
	require.NoError(t, err)

	report := catalog.Audit()
	assert.Equal(t, 104, report.TotalRoutes)
	assert.Equal(t, 102, report.Admissible)
	assert.Empty(t, report.DuplicateSlugs)
	assert.Empty(t, report.Unknown)
	assert.True(t, report.Clean())
	assert.Equal(t, []models.SkippedSlug{
		{Slug: "glossary/token", Reason: "insufficient sections (1 < 2)"},
		{Slug: "guides/ai-text-cleaner", Reason: "insufficient sections (1 < 2)"},
	}, report.Skipped)

	// manifest order: the keyword page comes before the guide
	assert.Equal(t, map[string][]string{
		"humanize chatgpt text": {"humanize-chatgpt-text", "guides/humanize-chatgpt-text"},
	}, report.KeywordCollisions)
	assert.Equal(t, []string{"humanize chatgpt text"}, report.CollidingKeywords())

	owner, ok := catalog.KeywordOwner("humanize chatgpt text")
	require.True(t, ok)
	assert.Equal(t, report.KeywordCollisions["humanize chatgpt text"][0], owner)
}

func TestAuditReportsDuplicateSlugs(t *testing.T) {
	dims, err := config.DefaultDimensions()
	require.NoError(t, err)

	dims.Detectors = append(dims.Detectors, dims.Detectors[0])
	catalog, err := testManifestsFor(t, dims).Current()
	require.NoError(t, err)

	report := catalog.Audit()
	assert.False(t, report.Clean())
	assert.Equal(t, map[string][]models.Playbook{
		"bypass-" + dims.Detectors[0].Slug: {models.PlaybookExamples, models.PlaybookExamples},
	}, report.DuplicateSlugs)
}

func TestAuditStore(t *testing.T) {
	ctx := context.Background()
	exporter, _ := newExporter(t)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	_, err := exporter.Export(ctx, models.ExportOptions{OutputDir: t.TempDir(), SQLitePath: dbPath})
	require.NoError(t, err)

	store, err := storage.OpenCatalog(dbPath)
	require.NoError(t, err)
	defer store.Close()

	catalog, err := exporter.manifests.Current()
	require.NoError(t, err)
	stored, err := catalog.AuditStore(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, catalog.Fingerprint, stored.Fingerprint)
	assert.False(t, stored.Stale)
	assert.Equal(t, map[string]int{storage.PageStatusPublished: 102, storage.PageStatusSkipped: 2}, stored.Counts)
	assert.Equal(t, map[string][]string{
		"humanize chatgpt text": {"guides/humanize-chatgpt-text", "humanize-chatgpt-text"},
	}, stored.KeywordCollisions)

	dims, err := config.DefaultDimensions()
	require.NoError(t, err)
	dims.Tools = dims.Tools[:1]
	other := testManifestsFor(t, dims)
	otherCatalog, err := other.Current()
	require.NoError(t, err)
	stored, err = otherCatalog.AuditStore(ctx, store)
	require.NoError(t, err)
	assert.True(t, stored.Stale)
}
