// internal/services/sitemap_service.go
package services

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/utils"
)

// Sitemap constants.
const (
	SitemapChangeFreq      = "weekly"
	PriorityComparisons    = 0.9
	PriorityGlossary       = 0.6
	PriorityDefault        = 0.8
	sitemapLastModLayout   = "2006-01-02"
	defaultSitemapSiteBase = "https://solidwrite.com"
)

// PriorityFor returns the static sitemap priority of a playbook.
func PriorityFor(playbook models.Playbook) float64 {
	switch playbook {
	case models.PlaybookComparisons:
		return PriorityComparisons
	case models.PlaybookGlossary:
		return PriorityGlossary
	default:
		return PriorityDefault
	}
}

// SitemapService projects the manifest into sitemap entries. By default it
// never generates pages, so thin routes are listed too; excludeSkipped
// runs the content-depth gate and leaves them out.
type SitemapService struct {
	manifests      *ManifestService
	siteURL        string
	excludeSkipped bool
	now            func() time.Time
	logger         *utils.Logger
}

// NewSitemapService creates a projector for siteURL (scheme and host, no
// trailing slash needed).
func NewSitemapService(manifests *ManifestService, siteURL string, excludeSkipped bool) *SitemapService {
	if siteURL == "" {
		siteURL = defaultSitemapSiteBase
	}
	return &SitemapService{
		manifests:      manifests,
		siteURL:        strings.TrimRight(siteURL, "/"),
		excludeSkipped: excludeSkipped,
		now:            time.Now,
		logger:         utils.GetLogger(),
	}
}

// SetClock replaces the clock used for lastmod.
func (s *SitemapService) SetClock(now func() time.Time) {
	s.now = now
}

// Project returns one entry per manifest route, in manifest order.
func (s *SitemapService) Project() ([]models.SitemapEntry, error) {
	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Format(sitemapLastModLayout)
	entries := make([]models.SitemapEntry, 0, len(catalog.Routes))
	excluded := 0

	for _, route := range catalog.Routes {
		if s.excludeSkipped {
			if _, err := catalog.Check(route); err != nil {
				excluded++
				continue
			}
		}
		entries = append(entries, models.SitemapEntry{
			Loc:        s.siteURL + route.URL(),
			LastMod:    today,
			ChangeFreq: SitemapChangeFreq,
			Priority:   PriorityFor(route.Playbook),
		})
	}

	if excluded > 0 {
		s.logger.Info("sitemap excluded thin routes", map[string]interface{}{"excluded": excluded})
	}
	return entries, nil
}

// RenderXML returns the sitemap as a urlset document.
func (s *SitemapService) RenderXML() ([]byte, error) {
	entries, err := s.Project()
	if err != nil {
		return nil, err
	}
	return EncodeSitemap(entries)
}

// EncodeSitemap serializes entries as an indented urlset document.
func EncodeSitemap(entries []models.SitemapEntry) ([]byte, error) {
	doc := models.URLSet{Xmlns: models.SitemapNamespace, URLs: entries}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
