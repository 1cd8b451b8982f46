// internal/playbooks/curation.go
package playbooks

import (
	"fmt"
	"strconv"

	"github.com/solidwrite/pseo/internal/models"
)

const maxRanked = 5

func generateCuration(e *Engine, route models.Route) *models.Page {
	persona, _ := route.Param(models.ParamPersona)
	useCase, _ := route.Param(models.ParamUseCase)
	who := lower(persona.Label)
	what := lower(useCase.Label)

	rows := [][]string{{"1", brand, fmt.Sprintf("%s writing %s", persona.Label, what), "9.6"}}
	for i, tool := range e.Dimensions().Tools {
		if len(rows) == maxRanked {
			break
		}
		score := 9.0 - 0.4*float64(i)
		rows = append(rows, []string{
			strconv.Itoa(len(rows) + 1),
			tool.Label,
			orDefault(tool.Get("category"), "general writing"),
			strconv.FormatFloat(score, 'f', 1, 64),
		})
	}

	seo := models.SEO{
		Title:           fmt.Sprintf("Best AI Humanizer for %s Writing %s (Ranked)", persona.Label, useCase.Label),
		MetaDescription: fmt.Sprintf("We ranked AI humanizers on how well they handle %s written by %s: detection results, tone and meaning retention.", what, who),
		PrimaryKeyword:  fmt.Sprintf("best ai humanizer for %s %s", who, what),
		SecondaryKeywords: []string{
			fmt.Sprintf("ai humanizer for %s", what),
			fmt.Sprintf("humanize %s ai %s", who, what),
		},
		SearchIntent: intentCommerce,
	}

	sections := []models.Section{
		prose("How we ranked", fmt.Sprintf(
			"Each tool humanized the same set of AI-drafted %s. We scored detector pass rate, meaning retention and how natural the result sounded to %s.", what, who)),
		structured("The ranking", models.RankingTable([]string{"Rank", "Tool", "Best for", "Score"}, rows)),
		prose(fmt.Sprintf("Why %s comes first", brand), fmt.Sprintf(
			"Its tone presets fit %s, and the built-in detector check means %s do not need a second tool.", what, who)),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("What is the best AI humanizer for %s?", what), fmt.Sprintf(
			"In our testing, %s ranked first for %s writing %s.", brand, who, what)),
		faq("How were the scores calculated?",
			"Scores combine detector pass rate, meaning retention and a readability review, each weighted equally."),
	}

	items := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		pos, _ := strconv.Atoi(row[0])
		items = append(items, map[string]interface{}{"@type": "ListItem", "position": pos, "name": row[1]})
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("Best AI Humanizer for %s Writing %s", persona.Label, useCase.Label),
		Introduction: fmt.Sprintf("Not every humanizer handles %s well. Here is how the options compare for %s.", what, who),
		Sections:     sections,
		FAQ:          faqs,
	}, "ItemList", map[string]interface{}{"itemListElement": items})
}
