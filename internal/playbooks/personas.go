// internal/playbooks/personas.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

func generatePersona(e *Engine, route models.Route) *models.Page {
	persona, _ := route.Param(models.ParamPersona)
	who := persona.Label
	whoLower := lower(who)
	pain := orDefault(persona.Get("pain"), "AI-assisted drafts that read as machine-written")

	seo := models.SEO{
		Title:           fmt.Sprintf("AI Humanizer for %s: Natural Writing That Passes Detection", who),
		MetaDescription: fmt.Sprintf("%s built for %s: turn AI-assisted drafts into natural, original writing and check it against leading AI detectors.", brand, whoLower),
		PrimaryKeyword:  "ai humanizer for " + whoLower,
		SecondaryKeywords: []string{
			"humanize ai text for " + whoLower,
			"ai detector bypass for " + whoLower,
			"best ai writing tool for " + whoLower,
		},
		SearchIntent: intentCommerce,
	}

	sections := []models.Section{
		prose(fmt.Sprintf("Why %s need an AI humanizer", whoLower), fmt.Sprintf(
			"AI tools speed up drafting, but the result often carries tell-tale patterns: even sentence lengths, "+
				"predictable transitions, generic phrasing. For %s the most common pain is %s. "+
				"A humanizer rewrites those patterns while keeping what you meant to say.", whoLower, pain)),
		structured(fmt.Sprintf("How %s helps %s", brand, whoLower), models.BenefitsList([]models.ListItem{
			item("Sounds like you", "Tone presets and your own samples steer the rewrite toward your voice."),
			item("Detector check included", "See how Turnitin, GPTZero and others would score the text before you submit it."),
			item("Meaning-lock", "Facts, names, figures and citations are never altered."),
			item("Fast", "Humanize 1,000 words in under ten seconds."),
		})),
		prose("A typical workflow", fmt.Sprintf(
			"Draft or outline with your usual AI assistant, paste the text into %s, choose a tone, and humanize. "+
				"Review the detector scores, make your personal edits, and you are done. Most %s finish in under five minutes.", brand, whoLower)),
		prose("Use it responsibly", fmt.Sprintf(
			"%s helps your writing read naturally; it does not replace your own thinking. "+
				"Follow the rules of your school, client or employer on AI assistance.", brand)),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Is %s good for %s?", brand, whoLower), fmt.Sprintf(
			"Yes. %s is designed around %s' most common problem: %s.", brand, whoLower, pain)),
		faq("Will the humanized text keep my meaning?",
			"Yes. Meaning-lock preserves facts, figures and citations while the sentence structure changes."),
		faq(fmt.Sprintf("How much does %s cost for %s?", brand, whoLower),
			"There is a free plan with 500 words per month. Paid plans start at $9.99/mo with discounts for annual billing."),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("The AI Humanizer Built for %s", who),
		Introduction: fmt.Sprintf("%s use AI to move faster. %s makes sure the result still sounds human.", who, brand),
		Sections:     sections,
		FAQ:          faqs,
	}, "SoftwareApplication", map[string]interface{}{
		"applicationCategory": "WritingApplication",
		"audience":            map[string]interface{}{"@type": "Audience", "audienceType": who},
	})
}
