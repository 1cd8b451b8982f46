// internal/playbooks/directory.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

func generateDirectory(e *Engine, route models.Route) *models.Page {
	dir, _ := route.Param(models.ParamDirectory)
	dims := e.Dimensions()

	var items []models.ListItem
	var noun string
	switch dir.Slug {
	case "ai-writing-tools":
		noun = "AI writing tools"
		for _, t := range dims.Tools {
			items = append(items, models.ListItem{
				Title:       t.Label,
				Description: orDefault(t.Get("category"), "writing tool"),
				URL:         "/solidwrite-vs-" + t.Slug,
				Badge:       t.Get("pricing"),
			})
		}
	case "ai-detectors":
		noun = "AI detectors"
		for _, d := range dims.Detectors {
			stats := StatsFor(d.Slug)
			items = append(items, models.ListItem{
				Title:       d.Label,
				Description: fmt.Sprintf("Claimed accuracy %d%%", stats.Accuracy),
				URL:         "/bypass-" + d.Slug,
			})
		}
	default:
		return nil
	}

	seo := models.SEO{
		Title:           fmt.Sprintf("%s Directory: %d Reviewed", dir.Label, len(items)),
		MetaDescription: fmt.Sprintf("A curated directory of %d %s with categories, pricing and how they compare to %s.", len(items), noun, brand),
		PrimaryKeyword:  lower(dir.Label + " directory"),
		SecondaryKeywords: []string{
			"list of " + noun,
			"best " + noun,
		},
		SearchIntent: intentNav,
	}

	sections := []models.Section{
		prose("About this directory", fmt.Sprintf(
			"Every entry links to a detailed page. We update the list as %s launch, change pricing or shut down.", noun)),
		structured("All "+noun, models.DirectoryListing(items)),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("How many %s are listed?", noun), fmt.Sprintf("%d, each with its own detailed page.", len(items))),
		faq("How is the directory maintained?", "Entries are reviewed on a regular schedule and whenever a vendor changes its product."),
	}

	elements := make([]interface{}, 0, len(items))
	for i, it := range items {
		elements = append(elements, map[string]interface{}{"@type": "ListItem", "position": i + 1, "name": it.Title, "url": it.URL})
	}

	return assemble(route, seo, models.Content{
		H1:           dir.Label + " Directory",
		Introduction: fmt.Sprintf("Browse %s we track, with links to full comparisons.", noun),
		Sections:     sections,
		FAQ:          faqs,
	}, "ItemList", map[string]interface{}{"numberOfItems": len(items), "itemListElement": elements})
}
