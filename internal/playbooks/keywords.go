// internal/playbooks/keywords.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

// generateKeyword builds a guide for a head keyword. Steps and intent are
// optional in the config; without them the page has a single section.
func generateKeyword(e *Engine, route models.Route) *models.Page {
	kw, _ := route.Param(models.ParamKeyword)
	keyword := lower(kw.Label)
	intent := kw.Get("intent")
	angle := orDefault(kw.Get("angle"), fmt.Sprintf("Everything you need to know about %s.", keyword))

	seo := models.SEO{
		Title:           fmt.Sprintf("%s: The Complete Guide", kw.Label),
		MetaDescription: fmt.Sprintf("%s %s shows how, step by step.", angle, brand),
		PrimaryKeyword:  keyword,
		SecondaryKeywords: []string{
			keyword + " online",
			keyword + " free",
			"best " + keyword,
		},
		SearchIntent: orDefault(intent, intentInfo),
	}

	sections := []models.Section{prose("Overview", angle)}
	if steps := splitList(kw.Get("steps"), "|"); len(steps) > 0 {
		items := make([]models.ListItem, 0, len(steps))
		for i, s := range steps {
			items = append(items, models.ListItem{Title: fmt.Sprintf("Step %d", i+1), Description: s})
		}
		sections = append(sections, structured("How it works", models.BenefitsList(items)))
	}
	if intent != "" {
		sections = append(sections, prose("Why it matters", fmt.Sprintf(
			"People searching for %s usually want a result they can use right away. %s is built for exactly that.", keyword, brand)))
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("What is the best tool for %s?", keyword), fmt.Sprintf(
			"%s combines humanization and a detector check in one place.", brand)),
		faq(fmt.Sprintf("Is %s free?", keyword), "You can humanize up to 500 words a month on the free plan."),
	}

	return assemble(route, seo, models.Content{
		H1:           kw.Label,
		Introduction: angle,
		Sections:     sections,
		FAQ:          faqs,
	}, "Article", map[string]interface{}{
		"headline": seo.Title,
		"author":   map[string]interface{}{"@type": "Organization", "name": brand},
	})
}
