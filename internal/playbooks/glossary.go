// internal/playbooks/glossary.go
package playbooks

import (
	"fmt"
	"strings"

	"github.com/solidwrite/pseo/internal/models"
)

// generateGlossary builds a term page. The definition and related-terms
// sections only appear when the term carries that data, so a bare term
// falls below the content-depth floor.
func generateGlossary(e *Engine, route models.Route) *models.Page {
	term, _ := route.Param(models.ParamTerm)
	name := term.Label
	definition := term.Get("definition")

	seo := models.SEO{
		Title:           fmt.Sprintf("What Is %s? Definition and Role in AI Detection", name),
		MetaDescription: orDefault(definition, fmt.Sprintf("%s explained: what it means and how it relates to AI writing and detection.", name)),
		PrimaryKeyword:  lower("what is " + name),
		SecondaryKeywords: []string{
			lower(name + " definition"),
			lower(name + " meaning"),
			lower(name + " ai detection"),
		},
		SearchIntent: intentInfo,
	}

	var sections []models.Section
	if definition != "" {
		sections = append(sections, prose("Definition", definition))
	}
	sections = append(sections, prose(name+" and AI detection", fmt.Sprintf(
		"Detectors and humanizers both reason about %s. Knowing what it measures helps you read a detector score "+
			"and understand why humanized text scores differently.", lower(name))))

	if related := splitList(term.Get("related"), ","); len(related) > 0 {
		items := make([]models.ListItem, 0, len(related))
		for _, slug := range related {
			items = append(items, models.ListItem{
				Title: glossaryLabel(e.Dimensions(), slug),
				URL:   "/glossary/" + slug,
			})
		}
		sections = append(sections, structured("Related terms", models.DirectoryListing(items)))
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("What does %s mean?", lower(name)), orDefault(definition,
			fmt.Sprintf("%s is a term used when discussing AI-generated text.", name))),
		faq(fmt.Sprintf("Does %s affect AI detection scores?", lower(name)), fmt.Sprintf(
			"It can. %s rewrites text with signals like this in mind so the result reads naturally.", brand)),
	}

	return assemble(route, seo, models.Content{
		H1:           "What Is " + name + "?",
		Introduction: fmt.Sprintf("A plain-language explanation of %s for writers working with AI tools.", lower(name)),
		Sections:     sections,
		FAQ:          faqs,
	}, "DefinedTerm", map[string]interface{}{
		"termCode": term.Slug,
		"inDefinedTermSet": map[string]interface{}{
			"@type": "DefinedTermSet",
			"name":  brand + " AI Writing Glossary",
		},
	})
}

// glossaryLabel resolves a related-term slug to its label, falling back to
// a title-cased slug for terms outside the config.
func glossaryLabel(dims *models.DimensionConfig, slug string) string {
	for _, t := range dims.GlossaryTerms {
		if t.Slug == slug {
			return t.Label
		}
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
