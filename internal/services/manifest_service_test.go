package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallDims(tools ...string) *models.DimensionConfig {
	cfg := &models.DimensionConfig{}
	for _, t := range tools {
		cfg.Tools = append(cfg.Tools, models.DimensionEntity{Slug: t, Label: t})
	}
	return cfg
}

func TestManifestServiceCachesByFingerprint(t *testing.T) {
	s := testManifests(t)

	first, err := s.Current()
	require.NoError(t, err)
	second, err := s.Current()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, first.Routes, 104)
	assert.Equal(t, []string{first.Fingerprint}, s.CachedFingerprints())
}

func TestManifestServiceEquivalentConfigsShareCatalog(t *testing.T) {
	s := testManifests(t)

	a := s.CatalogFor(smallDims("quillbot"))
	b := s.CatalogFor(smallDims("quillbot"))
	c := s.CatalogFor(smallDims("quillbot", "grammarly"))

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestManifestServiceEvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewManifestService(ManifestOptions{Dimensions: smallDims("a"), CacheSize: 2})
	require.NoError(t, err)
	defer s.Close()

	clock := time.Now()
	s.now = func() time.Time { return clock }
	tick := func() { clock = clock.Add(time.Second) }

	a := s.CatalogFor(smallDims("a"))
	tick()
	b := s.CatalogFor(smallDims("b"))
	tick()
	s.CatalogFor(smallDims("a")) // touch a
	tick()
	s.CatalogFor(smallDims("c"))

	cached := s.CachedFingerprints()
	assert.Len(t, cached, 2)
	assert.Contains(t, cached, a.Fingerprint)
	assert.NotContains(t, cached, b.Fingerprint)
}

func TestManifestServiceExpiresCatalogs(t *testing.T) {
	s, err := NewManifestService(ManifestOptions{Dimensions: smallDims("a"), CacheTTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	clock := time.Now()
	s.now = func() time.Time { return clock }

	first := s.CatalogFor(smallDims("a"))
	clock = clock.Add(2 * time.Minute)
	second := s.CatalogFor(smallDims("a"))

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestManifestServiceReloadsDimensionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - {slug: quillbot, label: QuillBot}\n"), 0644))

	s, err := NewManifestService(ManifestOptions{DimensionsFile: path})
	require.NoError(t, err)
	defer s.Close()

	first, err := s.Current()
	require.NoError(t, err)
	require.Len(t, first.Routes, 3) // one comparison plus two directories

	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - {slug: quillbot, label: QuillBot}\n  - {slug: jasper, label: Jasper}\n"), 0644))

	second, err := s.Current()
	require.NoError(t, err)
	assert.Len(t, second.Routes, 4)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
}

func TestManifestServiceMissingFile(t *testing.T) {
	s, err := NewManifestService(ManifestOptions{DimensionsFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Current()
	assert.Error(t, err)
}

func TestCatalogFindAndKeywordOwner(t *testing.T) {
	catalog, err := testManifests(t).Current()
	require.NoError(t, err)

	route, ok := catalog.Find("bypass-turnitin")
	require.True(t, ok)
	assert.Equal(t, models.PlaybookExamples, route.Playbook)

	_, ok = catalog.Find("nope")
	assert.False(t, ok)

	owner, ok := catalog.KeywordOwner("humanize chatgpt text")
	require.True(t, ok)
	assert.Equal(t, "humanize-chatgpt-text", owner)

	// thin pages own nothing
	_, ok = catalog.KeywordOwner("what is token")
	assert.False(t, ok)
}

func TestLockManagerSerializesPerKey(t *testing.T) {
	lm := NewLockManager(time.Minute)
	defer lm.Stop()

	done := make(chan struct{})
	inside := 0
	for i := 0; i < 10; i++ {
		go func() {
			_ = lm.ExecuteWithLock("k", func() error {
				inside++
				return nil
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	assert.Equal(t, 10, inside)
	assert.Equal(t, 1, lm.Len())

	lm.cleanupUnusedLocks(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, lm.Len())
}
