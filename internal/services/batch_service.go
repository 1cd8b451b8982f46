// internal/services/batch_service.go
package services

import (
	"context"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/utils"
)

// MaxBatchLimit bounds the pages generated by one batch call.
const MaxBatchLimit = 100

// BatchService generates windows of the manifest for bulk consumers.
type BatchService struct {
	manifests   *ManifestService
	pages       *PageService
	globalDedup bool
	metrics     *utils.MetricsCollector
	logger      *utils.Logger
}

// NewBatchService creates a batch orchestrator. With globalDedup set, a page
// is also dropped when an earlier route of the whole manifest owns its
// primary keyword, so separate windows never compete for a keyword.
func NewBatchService(manifests *ManifestService, pages *PageService, globalDedup bool) *BatchService {
	return &BatchService{
		manifests:   manifests,
		pages:       pages,
		globalDedup: globalDedup,
		metrics:     utils.GetMetricsCollector(),
		logger:      utils.GetLogger(),
	}
}

// ClampWindow normalizes a requested window: offset below zero becomes zero
// and limit is held to [0, MaxBatchLimit].
func ClampWindow(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxBatchLimit {
		limit = MaxBatchLimit
	}
	return offset, limit
}

// GenerateBatch generates routes [offset, offset+limit) of the manifest.
// Unknown and SKIPPED routes are dropped silently, as is any page whose slug
// or primary keyword was already emitted in this window. Total is always the
// full manifest size.
func (s *BatchService) GenerateBatch(ctx context.Context, offset, limit int) (*models.BatchResult, error) {
	offset, limit = ClampWindow(offset, limit)

	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}

	total := len(catalog.Routes)
	start := min(offset, total)
	end := min(start+limit, total)
	window := catalog.Routes[start:end]

	result := &models.BatchResult{
		Pages:  make([]*models.Page, 0, len(window)),
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}

	seenSlugs := make(map[string]struct{}, len(window))
	seenKeywords := make(map[string]struct{}, len(window))
	dropped := map[string]int{}

	for _, route := range window {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, dup := seenSlugs[route.Slug]; dup {
			dropped[utils.MetricBatchDroppedSlug]++
			continue
		}

		page, err := s.pages.generate(catalog, route)
		if err != nil {
			if !errors.IsThinContentError(err) && !errors.IsUnknownPlaybookError(err) {
				return nil, err
			}
			continue
		}

		keyword := page.SEO.PrimaryKeyword
		if _, dup := seenKeywords[keyword]; dup {
			dropped[utils.MetricBatchDroppedKeyword]++
			continue
		}
		if s.globalDedup {
			if owner, ok := catalog.KeywordOwner(keyword); ok && owner != route.Slug {
				dropped[utils.MetricBatchDroppedGlobal]++
				continue
			}
		}

		seenSlugs[route.Slug] = struct{}{}
		seenKeywords[keyword] = struct{}{}
		result.Pages = append(result.Pages, page)
	}

	result.Generated = len(result.Pages)

	for name, n := range dropped {
		s.metrics.AddCounter(name, int64(n))
	}
	s.logger.Info("batch generated", map[string]interface{}{
		"offset":            offset,
		"limit":             limit,
		"total":             total,
		"generated":         result.Generated,
		"dropped_slug":      dropped[utils.MetricBatchDroppedSlug],
		"dropped_keyword":   dropped[utils.MetricBatchDroppedKeyword],
		"dropped_global_kw": dropped[utils.MetricBatchDroppedGlobal],
		"fingerprint":       catalog.Fingerprint,
	})

	return result, nil
}
