// internal/models/dimension.go
package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// DimensionEntity is one labeled entry of a dimension list (a tool, a persona, a detector...).
// Playbook-specific fields such as a location's "lang" live in Extra.
type DimensionEntity struct {
	Slug  string            `json:"slug" yaml:"slug"`
	Label string            `json:"label" yaml:"label"`
	Extra map[string]string `json:"extra,omitempty" yaml:",inline"`
}

// Get returns an extra field, or "" when absent.
func (e DimensionEntity) Get(key string) string {
	if e.Extra == nil {
		return ""
	}
	return e.Extra[key]
}

// Combination is one allow-listed persona × use-case pair.
type Combination struct {
	Persona string `json:"persona" yaml:"persona"`
	UseCase string `json:"use_case" yaml:"use_case"`
}

// DimensionConfig is the static input the whole catalog is expanded from.
type DimensionConfig struct {
	Tools            []DimensionEntity `json:"tools" yaml:"tools"`
	Personas         []DimensionEntity `json:"personas" yaml:"personas"`
	Detectors        []DimensionEntity `json:"detectors" yaml:"detectors"`
	UseCases         []DimensionEntity `json:"use_cases" yaml:"use_cases"`
	GlossaryTerms    []DimensionEntity `json:"glossary_terms" yaml:"glossary_terms"`
	Locations        []DimensionEntity `json:"locations" yaml:"locations"`
	AIModels         []DimensionEntity `json:"ai_models" yaml:"ai_models"`
	KeywordPages     []DimensionEntity `json:"keyword_pages" yaml:"keyword_pages"`
	AlternativePages []DimensionEntity `json:"alternative_pages" yaml:"alternative_pages"`
	Combinations     []Combination     `json:"combinations" yaml:"combinations"`
}

// Fingerprint identifies the config content. Two configs with equal
// fingerprints expand into the same manifest.
func (c *DimensionConfig) Fingerprint() string {
	// encoding/json sorts map keys, so Extra is stable across runs
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// FindPersona looks up a persona by slug.
func (c *DimensionConfig) FindPersona(slug string) (DimensionEntity, bool) {
	return findEntity(c.Personas, slug)
}

// FindUseCase looks up a use case by slug.
func (c *DimensionConfig) FindUseCase(slug string) (DimensionEntity, bool) {
	return findEntity(c.UseCases, slug)
}

func findEntity(list []DimensionEntity, slug string) (DimensionEntity, bool) {
	for _, e := range list {
		if e.Slug == slug {
			return e, true
		}
	}
	return DimensionEntity{}, false
}
