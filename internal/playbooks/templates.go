// internal/playbooks/templates.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

// outlines holds the skeleton of each known use case; others get the generic one.
var outlines = map[string][]models.ListItem{
	"essays": {
		item("Hook", "One concrete sentence that earns attention."),
		item("Thesis", "Your claim, stated in a single sentence."),
		item("Body paragraphs", "One point each, with evidence and your own analysis."),
		item("Counterargument", "The strongest objection and your response."),
		item("Conclusion", "What changes if the reader accepts your thesis."),
	},
	"cover-letters": {
		item("Opening", "The role and one specific reason you want it."),
		item("Proof", "Two achievements with numbers."),
		item("Fit", "Why this company, in your own words."),
		item("Close", "A clear next step."),
	},
	"blog-posts": {
		item("Title and promise", "What the reader will walk away with."),
		item("Intro", "The problem, stated from the reader's side."),
		item("Sections", "Scannable H2s, each answering one question."),
		item("Examples", "At least one real example per section."),
		item("Wrap-up", "Summary plus a single call to action."),
	},
}

var genericOutline = []models.ListItem{
	item("Purpose", "What the reader should know or do after reading."),
	item("Key points", "Three points at most, most important first."),
	item("Evidence", "Specifics: numbers, names, examples."),
	item("Close", "A next step or takeaway."),
}

func generateTemplate(e *Engine, route models.Route) *models.Page {
	useCase, _ := route.Param(models.ParamUseCase)
	name := useCase.Label
	format := orDefault(useCase.Get("format"), lower(name))

	outline, ok := outlines[useCase.Slug]
	if !ok {
		outline = genericOutline
	}

	seo := models.SEO{
		Title:           fmt.Sprintf("%s Template + AI Humanizer Checklist", name),
		MetaDescription: fmt.Sprintf("A proven %s template, a drafting prompt, and a checklist for humanizing AI-assisted %s with %s.", format, lower(name), brand),
		PrimaryKeyword:  lower(name + " humanizer template"),
		SecondaryKeywords: []string{
			lower(name + " template"),
			lower("humanize ai " + name),
			lower("ai " + format + " prompt"),
		},
		SearchIntent: intentInfo,
	}

	sections := []models.Section{
		prose("When to use this template", fmt.Sprintf(
			"Use it whenever you are drafting a %s with AI assistance and need the final version to read as your own work.", format)),
		structured("Template structure", models.BenefitsList(outline)),
		prose("Drafting prompt", fmt.Sprintf(
			"\"Write a %s about [topic] for [audience]. Follow this structure: %s. Use concrete examples and avoid generic transitions.\" "+
				"Then paste the draft into %s.", format, outlineTitles(outline), brand)),
		structured("Humanizing checklist", models.BenefitsList([]models.ListItem{
			item("Vary sentence length", "Mix short punchy lines with longer ones."),
			item("Replace stock phrases", "Cut \"In today's world\", \"Moreover\", \"In conclusion\"."),
			item("Add one personal detail", "Something only you would know."),
			item("Run a detector check", "Confirm the score before sending."),
		})),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Can I use AI to write %s?", lower(name)),
			"AI can help with outlining and first drafts. Make the final version yours and follow any rules that apply to you."),
		faq(fmt.Sprintf("How do I make an AI-written %s sound human?", format), fmt.Sprintf(
			"Run it through %s, then apply the checklist above: vary rhythm, cut stock phrases and add a personal detail.", brand)),
		faq("Is this template free?", "Yes. Copy it, adapt it and use it as often as you like."),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("%s Template", name),
		Introduction: fmt.Sprintf("A simple structure for %s, plus the steps to make an AI-assisted draft sound like you.", lower(name)),
		Sections:     sections,
		FAQ:          faqs,
	}, "HowTo", map[string]interface{}{"step": len(outline)})
}

func outlineTitles(outline []models.ListItem) string {
	out := ""
	for i, it := range outline {
		if i > 0 {
			out += ", "
		}
		out += lower(it.Title)
	}
	return out
}
