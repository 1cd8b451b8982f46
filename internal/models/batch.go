// internal/models/batch.go
package models

// BatchResult is a windowed, validated, deduplicated view of the catalog.
type BatchResult struct {
	Pages     []*Page `json:"pages"`
	Total     int     `json:"total"`
	Offset    int     `json:"offset"`
	Limit     int     `json:"limit"`
	Generated int     `json:"generated"`
}
