// internal/models/route.go
package models

// Playbook is one of the fixed content-generation strategies.
type Playbook string

const (
	PlaybookComparisons  Playbook = "comparisons"
	PlaybookPersonas     Playbook = "personas"
	PlaybookExamples     Playbook = "examples"
	PlaybookTemplates    Playbook = "templates"
	PlaybookGlossary     Playbook = "glossary"
	PlaybookLocations    Playbook = "locations"
	PlaybookCuration     Playbook = "curation"
	PlaybookDirectory    Playbook = "directory"
	PlaybookKeywords     Playbook = "keywords"
	PlaybookAlternatives Playbook = "alternatives"
)

// AllPlaybooks lists every playbook in manifest emission order.
var AllPlaybooks = []Playbook{
	PlaybookComparisons,
	PlaybookPersonas,
	PlaybookExamples,
	PlaybookTemplates,
	PlaybookGlossary,
	PlaybookLocations,
	PlaybookCuration,
	PlaybookDirectory,
	PlaybookKeywords,
	PlaybookAlternatives,
}

// Valid reports whether p is a known playbook tag.
func (p Playbook) Valid() bool {
	for _, known := range AllPlaybooks {
		if p == known {
			return true
		}
	}
	return false
}

// Route parameter names.
const (
	ParamTool        = "tool"
	ParamPersona     = "persona"
	ParamDetector    = "detector"
	ParamAIModel     = "aiModel"
	ParamUseCase     = "useCase"
	ParamTerm        = "term"
	ParamLocation    = "location"
	ParamDirectory   = "directory"
	ParamKeyword     = "keyword"
	ParamAlternative = "alternative"
)

// Route is an addressable page descriptor produced before any content exists.
type Route struct {
	Slug     string                     `json:"slug"`
	Playbook Playbook                   `json:"playbook"`
	Title    string                     `json:"title"`
	Params   map[string]DimensionEntity `json:"params"`
}

// Param returns the named parameter entity.
func (r Route) Param(name string) (DimensionEntity, bool) {
	if r.Params == nil {
		return DimensionEntity{}, false
	}
	e, ok := r.Params[name]
	return e, ok
}

// URL is the site-relative path of the route.
func (r Route) URL() string {
	return "/" + r.Slug
}
