package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every directory variable at a temp dir so Load does not
// create folders in the package directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "export"))
	for _, key := range []string{
		"PORT", "SITE_URL", "DEBUG_MODE", "DIMENSIONS_FILE", "LINK_SEED",
		"MANIFEST_CACHE_SIZE", "MANIFEST_CACHE_TTL", "GLOBAL_KEYWORD_DEDUP",
		"SITEMAP_EXCLUDE_SKIPPED", "SERVE_PRERENDERED", "BATCH_RATE_LIMIT", "ADMIN_TOKEN_SECRET", "ADMIN_TOKEN_TTL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://solidwrite.com", cfg.SiteURL)
	assert.Equal(t, int64(0), cfg.LinkSeed)
	assert.Equal(t, 8, cfg.ManifestCacheSize)
	assert.Equal(t, 10*time.Minute, cfg.ManifestCacheTTL)
	assert.Equal(t, 60, cfg.BatchRateLimit)
	assert.Equal(t, 24*time.Hour, cfg.AdminTokenTTL)
	assert.False(t, cfg.GlobalKeywordDedup)
	assert.False(t, cfg.SitemapExcludeSkipped)
	assert.True(t, cfg.ServePrerendered)
	assert.Empty(t, cfg.AdminTokenSecret)
	assert.DirExists(t, filepath.Join(dir, "data"))
	assert.DirExists(t, filepath.Join(dir, "logs"))
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SITE_URL", "https://example.org/")
	t.Setenv("DEBUG_MODE", "yes")
	t.Setenv("LINK_SEED", "42")
	t.Setenv("MANIFEST_CACHE_TTL", "30s")
	t.Setenv("GLOBAL_KEYWORD_DEDUP", "true")
	t.Setenv("SITEMAP_EXCLUDE_SKIPPED", "1")
	t.Setenv("BATCH_RATE_LIMIT", "5")
	t.Setenv("SERVE_PRERENDERED", "false")
	t.Setenv("ADMIN_TOKEN_SECRET", "0123456789abcdef")
	t.Setenv("ADMIN_TOKEN_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://example.org", cfg.SiteURL, "trailing slash trimmed")
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, int64(42), cfg.LinkSeed)
	assert.Equal(t, 30*time.Second, cfg.ManifestCacheTTL)
	assert.True(t, cfg.GlobalKeywordDedup)
	assert.True(t, cfg.SitemapExcludeSkipped)
	assert.Equal(t, 5, cfg.BatchRateLimit)
	assert.False(t, cfg.ServePrerendered)
	assert.Equal(t, time.Hour, cfg.AdminTokenTTL)
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	isolate(t)
	t.Setenv("BATCH_RATE_LIMIT", "lots")
	t.Setenv("MANIFEST_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.BatchRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.ManifestCacheTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"invalid seed", "LINK_SEED", "abc"},
		{"short token secret", "ADMIN_TOKEN_SECRET", "short"},
		{"missing dimensions file", "DIMENSIONS_FILE", filepath.Join(os.TempDir(), "no-such-dims.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestCurrentConfigIsCopied(t *testing.T) {
	SetCurrentConfig(&Config{Port: "1234"})
	t.Cleanup(func() { SetCurrentConfig(nil) })

	cfg := GetCurrentConfig()
	cfg.Port = "changed"
	assert.Equal(t, "1234", GetCurrentConfig().Port)
}

func TestDefaultDimensions(t *testing.T) {
	dims, err := DefaultDimensions()
	require.NoError(t, err)

	assert.NotEmpty(t, dims.Tools)
	assert.NotEmpty(t, dims.GlossaryTerms)
	assert.Equal(t, "quillbot", dims.Tools[0].Slug)
	assert.Equal(t, "paraphraser", dims.Tools[0].Get("category"))
	assert.NotEmpty(t, dims.Fingerprint())
}

func TestParseDimensions(t *testing.T) {
	dims, err := ParseDimensions([]byte(`
locations:
  - {slug: germany, label: Germany, lang: de}
combinations:
  - {persona: students, use_case: essays}
`))
	require.NoError(t, err)

	want := &models.DimensionConfig{
		Locations: []models.DimensionEntity{
			{Slug: "germany", Label: "Germany", Extra: map[string]string{"lang": "de"}},
		},
		Combinations: []models.Combination{{Persona: "students", UseCase: "essays"}},
	}
	if diff := cmp.Diff(want, dims); diff != "" {
		t.Errorf("ParseDimensions() mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseDimensions([]byte("tools: [unclosed"))
	assert.Error(t, err)
}

func TestLoadDimensionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dims.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - {slug: jasper, label: Jasper}\n"), 0644))

	dims, err := LoadDimensionsFile(path)
	require.NoError(t, err)
	require.Len(t, dims.Tools, 1)
	assert.Equal(t, "Jasper", dims.Tools[0].Label)

	_, err = LoadDimensionsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
