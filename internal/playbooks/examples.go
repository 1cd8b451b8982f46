// internal/playbooks/examples.go
package playbooks

import (
	"fmt"
	"strconv"

	"github.com/solidwrite/pseo/internal/models"
)

// generateExample serves both detector and AI-model example pages. It
// returns nil for a route carrying neither parameter.
func generateExample(e *Engine, route models.Route) *models.Page {
	if detector, ok := route.Param(models.ParamDetector); ok {
		return detectorExample(route, detector)
	}
	if model, ok := route.Param(models.ParamAIModel); ok {
		return modelExample(route, model)
	}
	return nil
}

func detectorExample(route models.Route, detector models.DimensionEntity) *models.Page {
	name := detector.Label
	stats := StatsFor(detector.Slug)
	vendor := orDefault(detector.Get("vendor"), name)

	seo := models.SEO{
		Title:           fmt.Sprintf("How to Bypass %s AI Detection (Tested on %d Samples)", name, stats.SamplesTested),
		MetaDescription: fmt.Sprintf("%s flags AI text with %d%% claimed accuracy. See how %s-humanized text scored in our %d-sample test, with before-and-after results.", name, stats.Accuracy, brand, stats.SamplesTested),
		PrimaryKeyword:  lower("bypass " + name),
		SecondaryKeywords: []string{
			lower(name + " ai detector"),
			lower("how to pass " + name),
			lower(name + " false positive"),
			lower("does " + name + " detect ai"),
		},
		SearchIntent: intentInfo,
	}

	sections := []models.Section{
		prose(fmt.Sprintf("How %s detects AI writing", name), fmt.Sprintf(
			"%s, from %s, scores text on statistical signals such as perplexity (how predictable each word is) and burstiness "+
				"(how much sentence structure varies). Raw model output is unusually uniform on both, which is what the detector keys on.", name, vendor)),
		structured("Test results", models.ComparisonTable(
			[]string{"Metric", "Raw AI text", "After " + brand},
			[][]string{
				{"Flagged as AI", strconv.Itoa(stats.Accuracy) + "%", strconv.Itoa(100-stats.BypassRate) + "%"},
				{"Scored as human", strconv.Itoa(100-stats.Accuracy) + "%", strconv.Itoa(stats.BypassRate) + "%"},
				{"Samples", strconv.Itoa(stats.SamplesTested), strconv.Itoa(stats.SamplesTested)},
			})),
		structured("Step by step", models.BenefitsList([]models.ListItem{
			item("1. Get a baseline", fmt.Sprintf("Run your draft through %s or our built-in check to see where it stands.", name)),
			item("2. Humanize", fmt.Sprintf("Paste the text into %s and pick the tone that matches your assignment or brief.", brand)),
			item("3. Personalize", "Add a detail, example or opinion only you would include."),
			item("4. Re-check", "Confirm the new score before you submit."),
		})),
		prose("What detectors get wrong", fmt.Sprintf(
			"No detector is perfect. %s's human-text false positive rate is around %.1f%%, which means some original writing is flagged too. "+
				"Keep drafts and version history as evidence of your process.", name, stats.FalsePositiveRate)),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Can %s detect %s?", name, brand), fmt.Sprintf(
			"In our test of %d samples, %d%% of %s outputs were scored as human by %s.", stats.SamplesTested, stats.BypassRate, brand, name)),
		faq(fmt.Sprintf("How accurate is %s's AI detector?", name), fmt.Sprintf(
			"%s claims around %d%% accuracy on unedited AI text, with a false positive rate near %.1f%% on human writing.", name, stats.Accuracy, stats.FalsePositiveRate)),
		faq(fmt.Sprintf("Is it allowed to humanize text submitted to %s?", name),
			"That depends on your institution's or client's policy on AI assistance. Check the rules before you submit."),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("How to Bypass %s AI Detection", name),
		Introduction: fmt.Sprintf("%s is one of the most widely used AI detectors. Here is how it works, and how humanized text performs against it.", name),
		HeroStats: []models.HeroStat{
			{Value: strconv.Itoa(stats.BypassRate) + "%", Label: "scored human after " + brand},
			{Value: strconv.Itoa(stats.Accuracy) + "%", Label: name + " claimed accuracy"},
			{Value: strconv.Itoa(stats.SamplesTested), Label: "samples tested"},
		},
		Sections: sections,
		FAQ:      faqs,
	}, "HowTo", map[string]interface{}{"tool": brand, "about": name})
}

func modelExample(route models.Route, model models.DimensionEntity) *models.Page {
	name := model.Label
	vendor := orDefault(model.Get("vendor"), name)

	seo := models.SEO{
		Title:           fmt.Sprintf("Humanize %s Text: Before & After Examples", name),
		MetaDescription: fmt.Sprintf("Make %s output sound human. Real before-and-after examples and the steps to humanize %s text with %s.", name, name, brand),
		PrimaryKeyword:  lower("humanize " + name + " text"),
		SecondaryKeywords: []string{
			lower(name + " humanizer"),
			lower("make " + name + " undetectable"),
			lower(name + " ai detection"),
		},
		SearchIntent: intentTransact,
	}

	sections := []models.Section{
		prose(fmt.Sprintf("Why %s text gets flagged", name), fmt.Sprintf(
			"%s, built by %s, writes fluent text, but its defaults are recognizable: balanced three-part lists, "+
				"stock transitions like \"Moreover\" and \"In conclusion\", and sentences of near-identical length.", name, vendor)),
		structured("Before and after", models.ComparisonTable(
			[]string{"", name + " original", brand + " humanized"},
			[][]string{
				{"Opening", "In today's fast-paced world, time management is crucial.", "Most weeks, I run out of time before I run out of tasks."},
				{"Transition", "Moreover, it is important to note that planning helps.", "Planning helps, but only if you stick to it."},
				{"Closing", "In conclusion, effective time management leads to success.", "Protect two hours a day and the rest tends to follow."},
			})),
		structured("Tips for cleaner output", models.BenefitsList([]models.ListItem{
			item("Prompt for specifics", fmt.Sprintf("Ask %s for concrete examples instead of general statements.", name)),
			item("Humanize before editing", "Run the rewrite first, then make your personal edits on top."),
			item("Read it aloud", "Anything you would not say out loud is worth rephrasing."),
		})),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Can AI detectors tell that text came from %s?", name),
			"Often, yes. Unedited output from major models is flagged at high rates by leading detectors."),
		faq(fmt.Sprintf("Does %s work with %s output?", brand, name), fmt.Sprintf(
			"Yes. %s humanizes text from any model, including %s.", brand, name)),
		faq("Will humanizing change my facts?",
			"No. Meaning-lock keeps figures, names and claims intact."),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("Humanize %s Text", name),
		Introduction: fmt.Sprintf("Keep what %s gets right and lose the patterns that make it sound machine-written.", name),
		Sections:     sections,
		FAQ:          faqs,
	}, "HowTo", map[string]interface{}{"tool": brand, "about": name})
}
