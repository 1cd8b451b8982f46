// internal/models/page.go
package models

import "encoding/json"

// Page is the fully generated content document for one Route.
type Page struct {
	URL           string         `json:"url"`
	PlaybookType  Playbook       `json:"playbook_type"`
	SEO           SEO            `json:"seo"`
	Content       Content        `json:"content"`
	Schema        Schema         `json:"schema"`
	InternalLinks []InternalLink `json:"internal_links"`
	RelatedPages  []string       `json:"related_pages"`
}

// SEO carries head metadata and the keywords used for cannibalization checks.
type SEO struct {
	Title             string   `json:"title"`
	MetaDescription   string   `json:"meta_description"`
	PrimaryKeyword    string   `json:"primary_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	SearchIntent      string   `json:"search_intent"`
}

// Content is the renderable body of a page.
type Content struct {
	H1           string     `json:"h1"`
	Introduction string     `json:"introduction"`
	HeroStats    []HeroStat `json:"heroStats,omitempty"`
	Sections     []Section  `json:"sections"`
	FAQ          []FAQ      `json:"faq"`
	CallToAction string     `json:"call_to_action"`
}

// HeroStat is a headline figure shown above the fold.
type HeroStat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Section is one headed block of content.
type Section struct {
	Heading string      `json:"heading"`
	Body    SectionBody `json:"body"`
}

// FAQ is a question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Schema selects the structured-data type emitted for the page.
type Schema struct {
	Type           string                 `json:"type"`
	StructuredData map[string]interface{} `json:"structured_data"`
}

// InternalLink points at another page of the catalog.
type InternalLink struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Playbook Playbook `json:"playbook"`
}

// SkippedPage is the wire form of a page refused by the content-depth gate.
type SkippedPage struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// StatusSkipped marks a page that must not be served.
const StatusSkipped = "SKIPPED"

// NewSkippedPage builds the SKIPPED wire form.
func NewSkippedPage(reason string) SkippedPage {
	return SkippedPage{Status: StatusSkipped, Reason: reason}
}

// BodyKind tags the shape carried by a SectionBody.
type BodyKind string

const (
	BodyProse            BodyKind = "prose"
	BodyComparisonTable  BodyKind = "comparison_table"
	BodyRankingTable     BodyKind = "ranking_table"
	BodyBenefitsList     BodyKind = "benefits_list"
	BodyDirectoryListing BodyKind = "directory_listing"
)

// SectionBody is a closed union of the content shapes the renderer understands.
// Only the fields belonging to Kind are set.
type SectionBody struct {
	Kind    BodyKind   `json:"type"`
	Text    string     `json:"text,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Items   []ListItem `json:"items,omitempty"`
}

// ListItem is an entry of a benefits list, ranking or directory listing.
type ListItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Badge       string `json:"badge,omitempty"`
}

// Prose builds a plain text body.
func Prose(text string) SectionBody {
	return SectionBody{Kind: BodyProse, Text: text}
}

// ComparisonTable builds a feature comparison grid.
func ComparisonTable(headers []string, rows [][]string) SectionBody {
	return SectionBody{Kind: BodyComparisonTable, Headers: headers, Rows: rows}
}

// RankingTable builds an ordered ranking. Rows are expected to start with the rank.
func RankingTable(headers []string, rows [][]string) SectionBody {
	return SectionBody{Kind: BodyRankingTable, Headers: headers, Rows: rows}
}

// BenefitsList builds a titled bullet list.
func BenefitsList(items []ListItem) SectionBody {
	return SectionBody{Kind: BodyBenefitsList, Items: items}
}

// DirectoryListing builds a linked listing of catalog entries.
func DirectoryListing(items []ListItem) SectionBody {
	return SectionBody{Kind: BodyDirectoryListing, Items: items}
}

// IsStructured reports whether the body is anything other than prose.
func (b SectionBody) IsStructured() bool {
	return b.Kind != BodyProse
}

// Encode renders the body into the single-string form used by the legacy
// page template: prose stays plain text, structured shapes become a JSON
// payload carrying their "type".
func (b SectionBody) Encode() string {
	if b.Kind == BodyProse {
		return b.Text
	}
	data, err := json.Marshal(b)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeSectionBody is the inverse of Encode.
func DecodeSectionBody(s string) SectionBody {
	var b SectionBody
	if err := json.Unmarshal([]byte(s), &b); err == nil && b.Kind != "" && b.Kind != BodyProse {
		return b
	}
	return Prose(s)
}
