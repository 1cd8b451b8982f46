// internal/playbooks/helpers.go
package playbooks

import (
	"strings"

	"github.com/solidwrite/pseo/internal/manifest"
	"github.com/solidwrite/pseo/internal/models"
)

const (
	brand          = manifest.Brand
	schemaContext  = "https://schema.org"
	defaultCTA     = "Try " + brand + " free: paste your draft and get natural, human-sounding text in seconds."
	intentCommerce = "commercial"
	intentInfo     = "informational"
	intentTransact = "transactional"
	intentNav      = "navigational"
)

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func prose(heading, text string) models.Section {
	return models.Section{Heading: heading, Body: models.Prose(text)}
}

func structured(heading string, body models.SectionBody) models.Section {
	return models.Section{Heading: heading, Body: body}
}

func faq(question, answer string) models.FAQ {
	return models.FAQ{Question: question, Answer: answer}
}

func item(title, description string) models.ListItem {
	return models.ListItem{Title: title, Description: description}
}

// orDefault returns v unless it is blank.
func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// splitList splits a separator-delimited extra field, dropping blanks.
func splitList(v, sep string) []string {
	var out []string
	for _, part := range strings.Split(v, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// schemaFor builds the JSON-LD payload shared by every playbook: the page
// entity itself plus an FAQPage block mirroring the FAQ section.
func schemaFor(schemaType string, route models.Route, description string, faqs []models.FAQ, extra map[string]interface{}) models.Schema {
	data := map[string]interface{}{
		"@context":    schemaContext,
		"@type":       schemaType,
		"name":        route.Title,
		"description": description,
		"url":         route.URL(),
	}
	for k, v := range extra {
		data[k] = v
	}

	if len(faqs) > 0 {
		entities := make([]map[string]interface{}, 0, len(faqs))
		for _, f := range faqs {
			entities = append(entities, map[string]interface{}{
				"@type": "Question",
				"name":  f.Question,
				"acceptedAnswer": map[string]interface{}{
					"@type": "Answer",
					"text":  f.Answer,
				},
			})
		}
		data["faq"] = map[string]interface{}{
			"@context":   schemaContext,
			"@type":      "FAQPage",
			"mainEntity": entities,
		}
	}

	return models.Schema{Type: schemaType, StructuredData: data}
}

// assemble fills the fields every generator sets the same way.
func assemble(route models.Route, seo models.SEO, content models.Content, schemaType string, extra map[string]interface{}) *models.Page {
	if content.CallToAction == "" {
		content.CallToAction = defaultCTA
	}
	return &models.Page{
		SEO:     seo,
		Content: content,
		Schema:  schemaFor(schemaType, route, seo.MetaDescription, content.FAQ, extra),
	}
}
