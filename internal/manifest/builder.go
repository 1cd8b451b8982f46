// internal/manifest/builder.go
//
// Package manifest expands a dimension config into the flat, ordered list of
// routes every other part of the engine works from.
package manifest

import (
	"strings"

	"github.com/solidwrite/pseo/internal/models"
)

// Brand is the product name used in slug and title templates.
const Brand = "SolidWrite"

// Static directory routes.
var directories = []models.DimensionEntity{
	{Slug: "ai-writing-tools", Label: "AI Writing Tools"},
	{Slug: "ai-detectors", Label: "AI Detectors"},
}

// Build expands cfg into routes. The result depends only on cfg and its
// order is stable, so offset/limit windows are repeatable between calls.
// Entries are not validated; malformed ones yield malformed routes.
func Build(cfg *models.DimensionConfig) []models.Route {
	if cfg == nil {
		return nil
	}

	routes := make([]models.Route, 0, estimate(cfg))

	for _, tool := range cfg.Tools {
		routes = append(routes, route(
			"solidwrite-vs-"+tool.Slug,
			models.PlaybookComparisons,
			Brand+" vs "+tool.Label+": Which AI Humanizer Wins?",
			models.ParamTool, tool))
	}

	for _, persona := range cfg.Personas {
		routes = append(routes, route(
			"ai-humanizer-for-"+persona.Slug,
			models.PlaybookPersonas,
			"The Best AI Humanizer for "+persona.Label,
			models.ParamPersona, persona))
	}

	// detector and model variants share the examples generator
	for _, detector := range cfg.Detectors {
		routes = append(routes, route(
			"bypass-"+detector.Slug,
			models.PlaybookExamples,
			"How to Bypass "+detector.Label+" AI Detection",
			models.ParamDetector, detector))
	}
	for _, model := range cfg.AIModels {
		routes = append(routes, route(
			"humanize-"+model.Slug+"-text",
			models.PlaybookExamples,
			"Humanize "+model.Label+" Text",
			models.ParamAIModel, model))
	}

	for _, useCase := range cfg.UseCases {
		routes = append(routes, route(
			"templates/"+useCase.Slug,
			models.PlaybookTemplates,
			"AI Humanizer Template for "+useCase.Label,
			models.ParamUseCase, useCase))
	}

	for _, term := range cfg.GlossaryTerms {
		routes = append(routes, route(
			"glossary/"+term.Slug,
			models.PlaybookGlossary,
			"What Is "+term.Label+"?",
			models.ParamTerm, term))
	}

	for _, location := range cfg.Locations {
		routes = append(routes, route(
			"ai-humanizer-"+location.Slug,
			models.PlaybookLocations,
			"AI Humanizer in "+location.Label,
			models.ParamLocation, location))
	}

	for _, combo := range cfg.Combinations {
		persona, ok := cfg.FindPersona(combo.Persona)
		if !ok {
			persona = models.DimensionEntity{Slug: combo.Persona, Label: labelFromSlug(combo.Persona)}
		}
		useCase, ok := cfg.FindUseCase(combo.UseCase)
		if !ok {
			useCase = models.DimensionEntity{Slug: combo.UseCase, Label: labelFromSlug(combo.UseCase)}
		}
		routes = append(routes, models.Route{
			Slug:     "best-ai-humanizer-for-" + persona.Slug + "-" + useCase.Slug,
			Playbook: models.PlaybookCuration,
			Title:    "Best AI Humanizer for " + persona.Label + " Writing " + useCase.Label,
			Params: map[string]models.DimensionEntity{
				models.ParamPersona: persona,
				models.ParamUseCase: useCase,
			},
		})
	}

	for _, dir := range directories {
		routes = append(routes, route(dir.Slug, models.PlaybookDirectory, dir.Label+" Directory", models.ParamDirectory, dir))
	}

	for _, kw := range cfg.KeywordPages {
		routes = append(routes, route(
			"guides/"+kw.Slug,
			models.PlaybookKeywords,
			kw.Label,
			models.ParamKeyword, kw))
	}

	for _, alt := range cfg.AlternativePages {
		routes = append(routes, route(
			alt.Slug+"-alternatives",
			models.PlaybookAlternatives,
			"Best "+alt.Label+" Alternatives",
			models.ParamAlternative, alt))
	}

	return routes
}

func route(slug string, playbook models.Playbook, title, param string, entity models.DimensionEntity) models.Route {
	return models.Route{
		Slug:     slug,
		Playbook: playbook,
		Title:    title,
		Params:   map[string]models.DimensionEntity{param: entity},
	}
}

func estimate(cfg *models.DimensionConfig) int {
	return len(cfg.Tools) + len(cfg.Personas) + len(cfg.Detectors) + len(cfg.AIModels) +
		len(cfg.UseCases) + len(cfg.GlossaryTerms) + len(cfg.Locations) + len(cfg.Combinations) +
		len(directories) + len(cfg.KeywordPages) + len(cfg.AlternativePages)
}

// labelFromSlug turns "seo-agencies" into "Seo Agencies".
func labelFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
