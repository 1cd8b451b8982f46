// internal/playbooks/engine.go
//
// Package playbooks turns routes into page documents. Every generator is a
// pure function of the route's params (plus the read-only dimension config);
// the only non-deterministic input is the internal link source.
package playbooks

import (
	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
)

// DefaultLinkCount is the number of related links attached to each page.
const DefaultLinkCount = 5

// GeneratorFunc builds the page for a route, or returns nil when the route's
// params do not match any variant the generator knows.
type GeneratorFunc func(e *Engine, route models.Route) *models.Page

// LinkSource samples related routes for a page.
type LinkSource interface {
	Build(currentSlug string, playbook models.Playbook, count int) []models.InternalLink
}

// Engine dispatches routes to their playbook generator.
type Engine struct {
	dims       *models.DimensionConfig
	links      LinkSource
	generators map[models.Playbook]GeneratorFunc
}

// NewEngine creates an engine with every built-in playbook registered.
// links may be nil, in which case pages carry no internal links.
func NewEngine(dims *models.DimensionConfig, links LinkSource) *Engine {
	if dims == nil {
		dims = &models.DimensionConfig{}
	}
	e := &Engine{
		dims:       dims,
		links:      links,
		generators: make(map[models.Playbook]GeneratorFunc),
	}

	e.Register(models.PlaybookComparisons, generateComparison)
	e.Register(models.PlaybookPersonas, generatePersona)
	e.Register(models.PlaybookExamples, generateExample)
	e.Register(models.PlaybookTemplates, generateTemplate)
	e.Register(models.PlaybookGlossary, generateGlossary)
	e.Register(models.PlaybookLocations, generateLocation)
	e.Register(models.PlaybookCuration, generateCuration)
	e.Register(models.PlaybookDirectory, generateDirectory)
	e.Register(models.PlaybookKeywords, generateKeyword)
	e.Register(models.PlaybookAlternatives, generateAlternatives)

	return e
}

// Register installs or replaces the generator for a playbook.
func (e *Engine) Register(playbook models.Playbook, fn GeneratorFunc) {
	e.generators[playbook] = fn
}

// Unregister removes a playbook's generator.
func (e *Engine) Unregister(playbook models.Playbook) {
	delete(e.generators, playbook)
}

// Dimensions returns the dimension config the engine reads from.
func (e *Engine) Dimensions() *models.DimensionConfig {
	return e.dims
}

// Generate builds the page for route without applying the content-depth gate.
// An unregistered playbook, or a route its generator cannot handle, yields an
// unknown-playbook error.
func (e *Engine) Generate(route models.Route) (*models.Page, error) {
	fn, ok := e.generators[route.Playbook]
	if !ok {
		return nil, errors.NewUnknownPlaybookError(string(route.Playbook), route.Slug)
	}

	page := fn(e, route)
	if page == nil {
		return nil, errors.NewUnknownPlaybookError(string(route.Playbook), route.Slug)
	}

	page.URL = route.URL()
	page.PlaybookType = route.Playbook
	page.InternalLinks = e.buildLinks(route)
	page.RelatedPages = make([]string, 0, len(page.InternalLinks))
	for _, link := range page.InternalLinks {
		page.RelatedPages = append(page.RelatedPages, link.URL)
	}

	return page, nil
}

// GeneratePage builds and validates the page for route. The error is either
// an unknown-playbook error or a thin-content (SKIPPED) error.
func (e *Engine) GeneratePage(route models.Route) (*models.Page, error) {
	page, err := e.Generate(route)
	if err != nil {
		return nil, err
	}
	return Validate(page)
}

func (e *Engine) buildLinks(route models.Route) []models.InternalLink {
	if e.links == nil {
		return []models.InternalLink{}
	}
	links := e.links.Build(route.Slug, route.Playbook, DefaultLinkCount)
	if links == nil {
		return []models.InternalLink{}
	}
	return links
}
