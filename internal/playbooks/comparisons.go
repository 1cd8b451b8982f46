// internal/playbooks/comparisons.go
package playbooks

import (
	"fmt"

	"github.com/solidwrite/pseo/internal/models"
)

// capability rows of the comparison grid; the competitor column depends on
// the competitor's category.
var comparisonFeatures = []struct {
	feature    string
	ours       string
	byCategory map[string]string
	fallback   string
}{
	{"Primary purpose", "Humanize AI-generated text", map[string]string{
		"humanizer": "Humanize AI-generated text", "paraphraser": "Paraphrase text",
		"grammar checker": "Grammar and style correction", "rewriter": "Sentence rewriting",
		"ai writer": "Generate new content",
	}, "General writing assistance"},
	{"Built-in AI detection check", "Yes, 8 detectors", map[string]string{"humanizer": "Single score"}, "No"},
	{"Keeps original meaning", "Yes, meaning-lock mode", map[string]string{"grammar checker": "Yes", "rewriter": "Mostly"}, "Partially"},
	{"Varies sentence rhythm", "Yes", map[string]string{"humanizer": "Yes", "rewriter": "Limited"}, "No"},
	{"Academic tone mode", "Yes", map[string]string{"paraphraser": "Formal mode", "grammar checker": "Yes"}, "No"},
	{"Languages", "30+", map[string]string{"grammar checker": "English only", "rewriter": "English only"}, "Varies"},
	{"Free plan", "500 words / month", map[string]string{}, "See pricing"},
}

func generateComparison(e *Engine, route models.Route) *models.Page {
	tool, _ := route.Param(models.ParamTool)
	name := tool.Label
	category := tool.Get("category")

	rows := make([][]string, 0, len(comparisonFeatures))
	for _, f := range comparisonFeatures {
		theirs, ok := f.byCategory[category]
		if !ok {
			theirs = f.fallback
		}
		if f.feature == "Free plan" && tool.Get("pricing") != "" {
			theirs = tool.Get("pricing")
		}
		rows = append(rows, []string{f.feature, f.ours, theirs})
	}

	seo := models.SEO{
		Title:           fmt.Sprintf("%s vs %s: Features, Pricing & Detection Results", brand, name),
		MetaDescription: fmt.Sprintf("Compare %s and %s side by side: humanization quality, AI detector results, pricing and which one fits your writing.", brand, name),
		PrimaryKeyword:  lower(brand + " vs " + name),
		SecondaryKeywords: []string{
			lower(name + " alternative"),
			lower(name + " vs " + brand),
			lower(name + " review"),
			"ai humanizer comparison",
		},
		SearchIntent: intentCommerce,
	}

	categoryText := orDefault(category, "writing tool")
	sections := []models.Section{
		prose("Quick verdict", fmt.Sprintf(
			"%s is a %s. %s is built for one job: making AI-assisted drafts read like a person wrote them, "+
				"then proving it with a built-in detector check. If your goal is passing AI detection while keeping your meaning, "+
				"%s is the more focused choice; if you mainly need %s features, %s may still have a place in your stack.",
			name, categoryText, brand, brand, categoryText, name)),
		structured("Feature comparison", models.ComparisonTable(
			[]string{"Feature", brand, name}, rows)),
		prose("Pricing", fmt.Sprintf(
			"%s offers a free plan with 500 words per month and paid plans from $9.99/mo. %s pricing: %s.",
			brand, name, orDefault(tool.Get("pricing"), "check the vendor's site for current plans"))),
		prose(fmt.Sprintf("Where %s does well", name), fmt.Sprintf(
			"%s has a loyal user base for good reason: as a %s it is fast, familiar and integrates with common editors. "+
				"Writers who only need light edits often find it sufficient.", name, categoryText)),
		structured(fmt.Sprintf("Why writers switch from %s", name), models.BenefitsList([]models.ListItem{
			item("Detector-aware rewriting", "Output is scored against major detectors before you copy it."),
			item("Meaning stays intact", "Claims, numbers and citations are preserved through the rewrite."),
			item("Natural rhythm", "Sentence length and structure vary the way human writing does."),
			item("One workspace", "Humanize, check and edit without switching tabs."),
		})),
	}

	faqs := []models.FAQ{
		faq(fmt.Sprintf("Is %s better than %s?", brand, name), fmt.Sprintf(
			"For humanizing AI text and passing detectors, yes. %s is a %s, so it solves a different problem. Many writers use both.", name, categoryText)),
		faq(fmt.Sprintf("Can %s bypass AI detectors?", name), fmt.Sprintf(
			"%s was not designed around AI detection, so results vary. %s checks its output against detectors before you use it.", name, brand)),
		faq(fmt.Sprintf("Is there a free version of %s?", brand),
			"Yes. The free plan humanizes up to 500 words per month with no credit card."),
		faq(fmt.Sprintf("Can I use %s and %s together?", brand, name), fmt.Sprintf(
			"Yes. A common workflow is to polish grammar in %s, then run the final draft through %s.", name, brand)),
	}

	return assemble(route, seo, models.Content{
		H1:           fmt.Sprintf("%s vs %s", brand, name),
		Introduction: fmt.Sprintf("Choosing between %s and %s? Here is how they compare on the things that matter when your text has to read as human.", brand, name),
		HeroStats: []models.HeroStat{
			{Value: "95%", Label: "average human score after " + brand},
			{Value: "8", Label: "detectors checked"},
			{Value: "30+", Label: "languages"},
		},
		Sections: sections,
		FAQ:      faqs,
	}, "Product", map[string]interface{}{"brand": brand, "competitor": name})
}
