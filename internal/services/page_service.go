// internal/services/page_service.go
package services

import (
	"time"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/manifest"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/utils"
)

// PageService is the single-page entry point: route enumeration, slug
// lookup, and generate-then-validate for one route.
type PageService struct {
	manifests *ManifestService
	metrics   *utils.MetricsCollector
	logger    *utils.Logger
}

// NewPageService creates a page service over the manifest cache.
func NewPageService(manifests *ManifestService) *PageService {
	return &PageService{
		manifests: manifests,
		metrics:   utils.GetMetricsCollector(),
		logger:    utils.GetLogger(),
	}
}

// GetAllRoutes returns every route of the current manifest in emission order.
// The slice is shared with the cache and must not be modified.
func (s *PageService) GetAllRoutes() ([]models.Route, error) {
	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}
	return catalog.Routes, nil
}

// RoutesByPlaybook returns the routes of one playbook. An empty playbook
// returns all routes.
func (s *PageService) RoutesByPlaybook(playbook models.Playbook) ([]models.Route, error) {
	if playbook != "" && !playbook.Valid() {
		return nil, errors.NewValidationError("unknown playbook: "+string(playbook), nil)
	}
	routes, err := s.GetAllRoutes()
	if err != nil || playbook == "" {
		return routes, err
	}
	return manifest.FilterByPlaybook(routes, playbook), nil
}

// FindRoute looks up a route by slug.
func (s *PageService) FindRoute(slug string) (models.Route, error) {
	catalog, err := s.manifests.Current()
	if err != nil {
		return models.Route{}, err
	}
	route, ok := catalog.Find(slug)
	if !ok {
		return models.Route{}, errors.NewNotFoundError("no route for slug: "+slug, nil)
	}
	return route, nil
}

// GeneratePage generates and validates the page for route. Errors are an
// unknown-playbook error or a thin-content error carrying the skip reason.
func (s *PageService) GeneratePage(route models.Route) (*models.Page, error) {
	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}
	return s.generate(catalog, route)
}

func (s *PageService) generate(catalog *Catalog, route models.Route) (*models.Page, error) {
	start := time.Now()
	page, err := catalog.Engine.GeneratePage(route)
	s.metrics.RecordDuration(utils.MetricGenerationDurationUS, start)

	switch {
	case err == nil:
		s.metrics.IncrementCounter(utils.MetricPagesGenerated)
	case errors.IsThinContentError(err):
		s.metrics.IncrementCounter(utils.MetricPagesSkipped)
		s.logger.Debug("page skipped", map[string]interface{}{
			"slug":   route.Slug,
			"reason": errors.SkipReason(err),
		})
	case errors.IsUnknownPlaybookError(err):
		s.metrics.IncrementCounter(utils.MetricPagesUnknown)
		s.logger.Error("no generator for route", map[string]interface{}{
			"slug":     route.Slug,
			"playbook": string(route.Playbook),
		})
	}
	return page, err
}

// GeneratePageBySlug resolves slug and generates its page. An unknown slug
// is a not-found error.
func (s *PageService) GeneratePageBySlug(slug string) (*models.Page, error) {
	catalog, err := s.manifests.Current()
	if err != nil {
		return nil, err
	}
	route, ok := catalog.Find(slug)
	if !ok {
		return nil, errors.NewNotFoundError("no route for slug: "+slug, nil)
	}
	return s.generate(catalog, route)
}
