package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/solidwrite/pseo/internal/auth"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("LOG_DIR", t.TempDir())
	t.Setenv("EXPORT_DIR", t.TempDir())
	t.Setenv("LINK_SEED", "11")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRoutesCommand(t *testing.T) {
	out, err := runCLI(t, "routes", "--playbook", "glossary", "--json")
	require.NoError(t, err)

	var routes []models.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	assert.Len(t, routes, 14)

	out, err = runCLI(t, "routes")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 104)
	assert.Contains(t, out, "/glossary/perplexity")

	_, err = runCLI(t, "routes", "--playbook", "bogus")
	assert.Error(t, err)
}

func TestPageCommand(t *testing.T) {
	out, err := runCLI(t, "page", "glossary/perplexity")
	require.NoError(t, err)
	var page models.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "/glossary/perplexity", page.URL)

	out, err = runCLI(t, "page", "glossary/token")
	require.Error(t, err)
	var skipped models.SkippedPage
	require.NoError(t, json.Unmarshal([]byte(out), &skipped))
	assert.Equal(t, models.StatusSkipped, skipped.Status)

	_, err = runCLI(t, "page", "nope")
	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	out, err := runCLI(t, "batch", "--offset", "90", "--limit", "500", "--global-dedup")
	require.NoError(t, err)

	var result models.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 104, result.Total)
	assert.Equal(t, services.MaxBatchLimit, result.Limit)
	for _, page := range result.Pages {
		assert.NotEqual(t, "/guides/humanize-chatgpt-text", page.URL, "keyword owned by an earlier route")
	}
}

func TestSitemapCommand(t *testing.T) {
	out, err := runCLI(t, "sitemap", "--site-url", "https://example.org", "--exclude-skipped")
	require.NoError(t, err)
	assert.Equal(t, 102, strings.Count(out, "<url>"))
	assert.Contains(t, out, "<loc>https://example.org/glossary/perplexity</loc>")

	file := filepath.Join(t.TempDir(), "public", "sitemap.xml")
	out, err = runCLI(t, "sitemap", "-o", file)
	require.NoError(t, err)
	assert.Empty(t, out)

	body, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 104, strings.Count(string(body), "<url>"))
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")

	out, err := runCLI(t, "export", "--out", filepath.Join(dir, "site"), "--sqlite", db, "--json")
	require.NoError(t, err)

	var result models.ExportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 102, result.Written)
	assert.Len(t, result.Skipped, 2)
	assert.FileExists(t, filepath.Join(dir, "site", "pages", "glossary", "perplexity.json"))
	assert.FileExists(t, db)
}

func TestCheckCommand(t *testing.T) {
	out, err := runCLI(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "routes: 104, admissible: 102")
	assert.Contains(t, out, "skipped /glossary/token: insufficient sections (1 < 2)")
	assert.Contains(t, out, `keyword "humanize chatgpt text" shared by [humanize-chatgpt-text guides/humanize-chatgpt-text]`)

	_, err = runCLI(t, "check", "--strict")
	assert.Error(t, err)
}

func TestCustomDimensionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dims.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tools:
  - {slug: quillbot, label: QuillBot}
glossary_terms:
  - {slug: burstiness, label: Burstiness, definition: "Variation in sentence length and structure."}
`), 0644))

	out, err := runCLI(t, "routes", "--dimensions", path, "--json")
	require.NoError(t, err)

	var routes []models.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	slugs := make([]string, len(routes))
	for i, r := range routes {
		slugs[i] = r.Slug
	}
	assert.Equal(t, []string{"solidwrite-vs-quillbot", "glossary/burstiness", "ai-writing-tools", "ai-detectors"}, slugs)

	_, err = runCLI(t, "routes", "--dimensions", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pseo test\n", out)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ADMIN_TOKEN_SECRET", "")
	_, err := runCLI(t, "token")
	assert.Error(t, err)

	secret := "0123456789abcdef0123"
	t.Setenv("ADMIN_TOKEN_SECRET", secret)
	out, err := runCLI(t, "token", "--subject", "ci", "--ttl", "5m")
	require.NoError(t, err)

	token, err := auth.Authorize(strings.TrimSpace(out), auth.ScopeExport, auth.NewTokenConfig(secret, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "ci", token.Subject)
	assert.Equal(t, int64(300), token.ExpiresAt-token.IssuedAt)
}

func TestCheckAndPageReadExportedCatalog(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")
	_, err := runCLI(t, "export", "--out", filepath.Join(dir, "site"), "--sqlite", db)
	require.NoError(t, err)

	out, err := runCLI(t, "check", "--sqlite", db)
	require.NoError(t, err)
	assert.Contains(t, out, "catalog "+db+": published 102, skipped 2")
	assert.Contains(t, out, `stored keyword "humanize chatgpt text" shared by [guides/humanize-chatgpt-text humanize-chatgpt-text]`)
	assert.NotContains(t, out, "stale")

	out, err = runCLI(t, "page", "glossary/perplexity", "--sqlite", db)
	require.NoError(t, err)
	var page models.Page
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "/glossary/perplexity", page.URL)

	_, err = runCLI(t, "page", "glossary/token", "--sqlite", db)
	assert.Error(t, err, "skipped pages have no stored document")

	_, err = runCLI(t, "check", "--sqlite", filepath.Join(dir, "missing.db"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "missing.db"))
}

func TestCheckReportsStaleCatalog(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")
	_, err := runCLI(t, "export", "--out", filepath.Join(dir, "site"), "--sqlite", db)
	require.NoError(t, err)

	dims := filepath.Join(dir, "dims.yaml")
	require.NoError(t, os.WriteFile(dims, []byte("tools:\n  - {slug: quillbot, label: QuillBot}\n"), 0644))

	out, err := runCLI(t, "check", "--dimensions", dims, "--sqlite", db, "--json")
	require.NoError(t, err)
	var report services.AuditReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Stored)
	assert.True(t, report.Stored.Stale)

	_, err = runCLI(t, "check", "--dimensions", dims, "--sqlite", db, "--strict")
	assert.Error(t, err)
}
