package services

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
}

func TestSitemapListsEveryRoute(t *testing.T) {
	manifests := testManifests(t)
	sitemap := NewSitemapService(manifests, "https://example.com/", false)
	sitemap.SetClock(fixedClock)

	entries, err := sitemap.Project()
	require.NoError(t, err)

	catalog, err := manifests.Current()
	require.NoError(t, err)
	require.Len(t, entries, len(catalog.Routes))

	for i, e := range entries {
		route := catalog.Routes[i]
		assert.Equal(t, "https://example.com"+route.URL(), e.Loc)
		assert.Equal(t, "2026-03-14", e.LastMod)
		assert.Equal(t, "weekly", e.ChangeFreq)
		assert.Equal(t, PriorityFor(route.Playbook), e.Priority)
	}
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, 0.9, PriorityFor(models.PlaybookComparisons))
	assert.Equal(t, 0.6, PriorityFor(models.PlaybookGlossary))
	for _, pb := range []models.Playbook{models.PlaybookPersonas, models.PlaybookKeywords, models.PlaybookDirectory} {
		assert.Equal(t, 0.8, PriorityFor(pb))
	}
}

func TestSitemapXML(t *testing.T) {
	sitemap := NewSitemapService(testManifests(t), "https://example.com", false)
	sitemap.SetClock(fixedClock)

	data, err := sitemap.RenderXML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	var doc models.URLSet
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, models.SitemapNamespace, doc.Xmlns)
	assert.Len(t, doc.URLs, 104)
	assert.Equal(t, models.SitemapEntry{
		Loc:        "https://example.com/solidwrite-vs-quillbot",
		LastMod:    "2026-03-14",
		ChangeFreq: "weekly",
		Priority:   0.9,
	}, doc.URLs[0])
}

func TestSitemapExcludeSkipped(t *testing.T) {
	sitemap := NewSitemapService(testManifests(t), "", true)

	entries, err := sitemap.Project()
	require.NoError(t, err)
	assert.Len(t, entries, 102)
	for _, e := range entries {
		assert.NotEqual(t, "https://solidwrite.com/glossary/token", e.Loc)
		assert.NotEqual(t, "https://solidwrite.com/guides/ai-text-cleaner", e.Loc)
	}
}
