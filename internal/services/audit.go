// internal/services/audit.go
package services

import (
	"context"
	"sort"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/manifest"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/storage"
)

// AuditReport lists the catalog problems batch and sitemap callers would
// otherwise only discover page by page.
type AuditReport struct {
	Fingerprint    string                       `json:"fingerprint"`
	TotalRoutes    int                          `json:"total_routes"`
	Admissible     int                          `json:"admissible"`
	DuplicateSlugs map[string][]models.Playbook `json:"duplicate_slugs,omitempty"`
	Skipped        []models.SkippedSlug         `json:"skipped,omitempty"`
	Unknown        []string                     `json:"unknown,omitempty"`
	// KeywordCollisions maps a primary keyword to every slug producing it,
	// in manifest order. The first slug owns the keyword.
	KeywordCollisions map[string][]string `json:"keyword_collisions,omitempty"`

	// Stored describes an exported SQLite catalog when one was audited too.
	Stored *StoredCatalogReport `json:"stored,omitempty"`
}

// StoredCatalogReport is what an exported SQLite catalog holds, read back
// through its keyword index.
type StoredCatalogReport struct {
	Path        string         `json:"path"`
	Fingerprint string         `json:"fingerprint"`
	Counts      map[string]int `json:"counts"`
	// Stale is set when the catalog was exported from another manifest.
	Stale bool `json:"stale"`
	// KeywordCollisions maps a stored primary keyword to its slugs in slug order.
	KeywordCollisions map[string][]string `json:"keyword_collisions,omitempty"`
}

// Clean reports whether the catalog has no duplicate slugs and no routes
// without a generator. Skipped pages and keyword collisions are expected
// in small numbers and do not make a catalog unclean.
func (r *AuditReport) Clean() bool {
	return len(r.DuplicateSlugs) == 0 && len(r.Unknown) == 0
}

// CollidingKeywords returns the colliding keywords in sorted order.
func (r *AuditReport) CollidingKeywords() []string {
	return sortedKeys(r.KeywordCollisions)
}

// CollidingKeywords returns the stored colliding keywords in sorted order.
func (r *StoredCatalogReport) CollidingKeywords() []string {
	return sortedKeys(r.KeywordCollisions)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Audit runs the content-depth gate over the whole manifest. Links are not
// sampled.
func (c *Catalog) Audit() *AuditReport {
	report := &AuditReport{
		Fingerprint:    c.Fingerprint,
		TotalRoutes:    len(c.Routes),
		DuplicateSlugs: manifest.DuplicateSlugs(c.Routes),
	}

	byKeyword := make(map[string][]string)
	for _, route := range c.Routes {
		page, err := c.Check(route)
		switch {
		case err == nil:
			report.Admissible++
			byKeyword[page.SEO.PrimaryKeyword] = append(byKeyword[page.SEO.PrimaryKeyword], route.Slug)
		case errors.IsThinContentError(err):
			report.Skipped = append(report.Skipped, models.SkippedSlug{Slug: route.Slug, Reason: errors.SkipReason(err)})
		default:
			report.Unknown = append(report.Unknown, route.Slug)
		}
	}

	for kw, slugs := range byKeyword {
		if len(slugs) > 1 {
			if report.KeywordCollisions == nil {
				report.KeywordCollisions = make(map[string][]string)
			}
			report.KeywordCollisions[kw] = slugs
		}
	}
	if len(report.DuplicateSlugs) == 0 {
		report.DuplicateSlugs = nil
	}
	return report
}

// AuditStore reads an exported catalog back and compares it with this
// manifest.
func (c *Catalog) AuditStore(ctx context.Context, store *storage.CatalogStore) (*StoredCatalogReport, error) {
	fingerprint, err := store.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	collisions, err := store.PrimaryKeywordCollisions(ctx)
	if err != nil {
		return nil, err
	}
	if len(collisions) == 0 {
		collisions = nil
	}

	return &StoredCatalogReport{
		Path:              store.Path(),
		Fingerprint:       fingerprint,
		Counts:            counts,
		Stale:             fingerprint != c.Fingerprint,
		KeywordCollisions: collisions,
	}, nil
}
