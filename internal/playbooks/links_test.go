package playbooks

import (
	"fmt"
	"testing"

	"github.com/solidwrite/pseo/internal/models"
	"github.com/stretchr/testify/assert"
)

func syntheticRoutes(perPlaybook int) []models.Route {
	var routes []models.Route
	for _, pb := range []models.Playbook{models.PlaybookComparisons, models.PlaybookGlossary, models.PlaybookKeywords} {
		for i := 0; i < perPlaybook; i++ {
			routes = append(routes, models.Route{Slug: fmt.Sprintf("%s-%d", pb, i), Playbook: pb, Title: string(pb)})
		}
	}
	return routes
}

func TestLinkBuilderSplitAndExclusion(t *testing.T) {
	routes := syntheticRoutes(4)
	lb := NewLinkBuilder(routes, NewRand(3))

	for i := 0; i < 200; i++ {
		links := lb.Build("glossary-0", models.PlaybookGlossary, 5)
		assert.Len(t, links, 5)

		seen := map[string]bool{}
		for j, l := range links {
			assert.NotEqual(t, "/glossary-0", l.URL)
			assert.False(t, seen[l.URL], "duplicate link %s", l.URL)
			seen[l.URL] = true
			if j < samePlaybookLinks {
				assert.Equal(t, models.PlaybookGlossary, l.Playbook)
			} else {
				assert.NotEqual(t, models.PlaybookGlossary, l.Playbook)
			}
		}
	}
}

func TestLinkBuilderTruncatesToCount(t *testing.T) {
	lb := NewLinkBuilder(syntheticRoutes(4), NewRand(3))

	assert.Len(t, lb.Build("glossary-0", models.PlaybookGlossary, 3), 3)
	assert.Empty(t, lb.Build("glossary-0", models.PlaybookGlossary, 0))
}

func TestLinkBuilderSmallPartitions(t *testing.T) {
	routes := []models.Route{
		{Slug: "a", Playbook: models.PlaybookGlossary},
		{Slug: "b", Playbook: models.PlaybookGlossary},
		{Slug: "c", Playbook: models.PlaybookKeywords},
	}
	lb := NewLinkBuilder(routes, NewRand(5))

	links := lb.Build("a", models.PlaybookGlossary, 5)
	assert.Equal(t, []models.InternalLink{
		{URL: "/b", Playbook: models.PlaybookGlossary},
		{URL: "/c", Playbook: models.PlaybookKeywords},
	}, links)
}

func TestLinkBuilderReproducible(t *testing.T) {
	routes := syntheticRoutes(10)
	a := NewLinkBuilder(routes, NewRand(11))
	b := NewLinkBuilder(routes, NewRand(11))

	for i := 0; i < 20; i++ {
		assert.Equal(t,
			a.Build("keywords-3", models.PlaybookKeywords, 5),
			b.Build("keywords-3", models.PlaybookKeywords, 5))
	}
}

func TestLinkBuilderSpreadsLinks(t *testing.T) {
	routes := syntheticRoutes(10)
	lb := NewLinkBuilder(routes, NewRand(17))

	hits := map[string]int{}
	for i := 0; i < 2000; i++ {
		for _, l := range lb.Build("comparisons-0", models.PlaybookComparisons, 5) {
			hits[l.URL]++
		}
	}
	// every eligible route is reached
	assert.Len(t, hits, len(routes)-1)
}

func TestSectionBodyEncoding(t *testing.T) {
	table := models.ComparisonTable([]string{"Feature", "A", "B"}, [][]string{{"x", "y", "z"}})

	assert.Equal(t, "plain words", models.Prose("plain words").Encode())
	assert.JSONEq(t, `{"type":"comparison_table","headers":["Feature","A","B"],"rows":[["x","y","z"]]}`, table.Encode())
	assert.Equal(t, table, models.DecodeSectionBody(table.Encode()))
	assert.Equal(t, models.Prose(`{"not":"a body"}`), models.DecodeSectionBody(`{"not":"a body"}`))
	assert.False(t, models.Prose("x").IsStructured())
	assert.True(t, table.IsStructured())
}
