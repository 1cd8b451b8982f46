// internal/playbooks/alternatives.go
package playbooks

import (
	"fmt"
	"strconv"

	"github.com/solidwrite/pseo/internal/models"
)

func generateAlternatives(e *Engine, route models.Route) *models.Page {
	alt, _ := route.Param(models.ParamAlternative)
	name := alt.Label
	category := orDefault(alt.Get("category"), "writing tool")

	rows := [][]string{{"1", brand, "Humanizing with a built-in detector check"}}
	for _, tool := range e.Dimensions().Tools {
		if len(rows) == maxRanked {
			break
		}
		if tool.Slug == alt.Slug {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(len(rows) + 1), tool.Label, orDefault(tool.Get("category"), "general writing")})
	}

	seo := models.SEO{
		Title:           fmt.Sprintf("Best %s Alternatives (Free & Paid)", name),
		MetaDescription: fmt.Sprintf("Looking for a %s alternative? Compare the best %s options, starting with %s.", name, category, brand),
		PrimaryKeyword:  lower(name + " alternatives"),
		SecondaryKeywords: []string{
			lower(name + " alternative"),
			lower("apps like " + name),
			lower(name + " competitors"),
		},
		SearchIntent: intentCommerce,
	}

	sections := []models.Section{
		prose(fmt.Sprintf("Why people look beyond %s", name), fmt.Sprintf(
			"%s is a capable %s, but users often want stronger humanization, a detector check or a more generous free plan.", name, category)),
		structured("Top alternatives", models.RankingTable([]string{"Rank", "Tool", "Best for"}, rows)),
		structured(fmt.Sprintf("%s vs %s", name, brand), models.ComparisonTable(
			[]string{"Feature", name, brand},
			[][]string{
				{"Category", category, "humanizer"},
				{"Built-in AI detection check", "No", "Yes"},
				{"Meaning-lock", "No", "Yes"},
				{"Free plan", "Limited", "500 words / month"},
			})),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("What is the best alternative to %s?", name), fmt.Sprintf(
			"For humanizing AI text, %s is our top pick.", brand)),
		faq(fmt.Sprintf("Is there a free %s alternative?", name), fmt.Sprintf(
			"Yes. %s has a free plan with 500 words per month.", brand)),
	}

	items := make([]interface{}, 0, len(rows))
	for i, row := range rows {
		items = append(items, map[string]interface{}{"@type": "ListItem", "position": i + 1, "name": row[1]})
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("The Best %s Alternatives", name),
		Introduction: fmt.Sprintf("If %s is not quite right, these tools are worth a look.", name),
		Sections:     sections,
		FAQ:          faqs,
	}, "ItemList", map[string]interface{}{"itemListElement": items})
}
