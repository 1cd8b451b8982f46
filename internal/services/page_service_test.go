package services

import (
	"strings"
	"testing"

	"github.com/solidwrite/pseo/internal/errors"
	"github.com/solidwrite/pseo/internal/models"
	"github.com/solidwrite/pseo/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageServiceRoutes(t *testing.T) {
	pages := NewPageService(testManifests(t))

	routes, err := pages.GetAllRoutes()
	require.NoError(t, err)
	assert.Len(t, routes, 104)

	glossary, err := pages.RoutesByPlaybook(models.PlaybookGlossary)
	require.NoError(t, err)
	assert.Len(t, glossary, 14)

	_, err = pages.RoutesByPlaybook("mystery")
	assert.True(t, errors.IsValidationError(err))
}

func TestPageServiceFindAndGenerate(t *testing.T) {
	pages := NewPageService(testManifests(t))

	route, err := pages.FindRoute("bypass-turnitin")
	require.NoError(t, err)

	page, err := pages.GeneratePage(route)
	require.NoError(t, err)

	var questions []string
	for _, f := range page.Content.FAQ {
		questions = append(questions, f.Question)
	}
	assert.True(t, strings.Contains(strings.Join(questions, "\n"), "Turnitin"))

	_, err = pages.FindRoute("no-such-page")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestPageServiceBySlugOutcomes(t *testing.T) {
	pages := NewPageService(testManifests(t))
	metrics := utils.GetMetricsCollector()
	skippedBefore := metrics.GetCounterValue(utils.MetricPagesSkipped)

	page, err := pages.GeneratePageBySlug("glossary/perplexity")
	require.NoError(t, err)
	assert.Equal(t, "/glossary/perplexity", page.URL)

	_, err = pages.GeneratePageBySlug("glossary/token")
	assert.True(t, errors.IsThinContentError(err))
	assert.Equal(t, "insufficient sections (1 < 2)", errors.SkipReason(err))
	assert.Equal(t, skippedBefore+1, metrics.GetCounterValue(utils.MetricPagesSkipped))

	_, err = pages.GeneratePageBySlug("glossary/unknown")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestPageServiceUnknownVariant(t *testing.T) {
	pages := NewPageService(testManifests(t))

	_, err := pages.GeneratePage(models.Route{Slug: "bypass-x", Playbook: models.PlaybookExamples})
	assert.True(t, errors.IsUnknownPlaybookError(err))
}
