// internal/playbooks/locations.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

const maxLocationUseCases = 4

func generateLocation(e *Engine, route models.Route) *models.Page {
	location, _ := route.Param(models.ParamLocation)
	place := location.Label
	lang := orDefault(location.Get("lang"), "en")
	demonym := orDefault(location.Get("demonym"), place)

	seo := models.SEO{
		Title:           fmt.Sprintf("AI Humanizer in %s: Natural Text for %s Writers", place, demonym),
		MetaDescription: fmt.Sprintf("%s for writers in %s: humanize AI text in %s spelling and tone, then check it against the detectors used locally.", brand, place, lang),
		PrimaryKeyword:  lower("ai humanizer " + place),
		SecondaryKeywords: []string{
			lower("humanize ai text " + place),
			lower(demonym + " ai humanizer"),
			lower("ai detector " + place),
		},
		SearchIntent: intentCommerce,
	}

	useCases := e.Dimensions().UseCases
	if len(useCases) > maxLocationUseCases {
		useCases = useCases[:maxLocationUseCases]
	}
	items := make([]models.ListItem, 0, len(useCases))
	for _, uc := range useCases {
		items = append(items, models.ListItem{
			Title:       uc.Label,
			Description: fmt.Sprintf("Humanize %s for %s readers.", orDefault(uc.Get("format"), lower(uc.Label)), demonym),
			URL:         "/templates/" + uc.Slug,
		})
	}

	sections := []models.Section{
		prose(fmt.Sprintf("Writing for %s readers", demonym), fmt.Sprintf(
			"%s matches regional spelling and idiom for the %s locale, so humanized text reads naturally to a %s audience.", brand, lang, demonym)),
		structured("Popular uses in "+place, models.BenefitsList(items)),
		prose("Detection in "+place, fmt.Sprintf(
			"Schools and publishers in %s increasingly screen submissions with AI detectors. Check your score before you submit.", place)),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Is %s available in %s?", brand, place), fmt.Sprintf(
			"Yes. %s works in %s with local pricing and %s output.", brand, place, lang)),
		faq(fmt.Sprintf("Does %s support %s spelling?", brand, demonym), fmt.Sprintf(
			"Yes. Set the output locale to %s and the rewrite follows it.", lang)),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("AI Humanizer for Writers in %s", place),
		Introduction: fmt.Sprintf("Natural, human-sounding text for %s students, professionals and creators.", demonym),
		Sections:     sections,
		FAQ:          faqs,
	}, "SoftwareApplication", map[string]interface{}{
		"inLanguage":      lang,
		"areaServed":      place,
		"offers":          map[string]interface{}{"@type": "Offer", "price": "0", "priceCurrency": "USD"},
		"operatingSystem": "Web",
	})
}
