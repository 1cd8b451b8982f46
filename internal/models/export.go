// internal/models/export.go
package models

import "time"

// ExportOptions controls a static export run.
type ExportOptions struct {
	OutputDir   string `json:"output_dir"`
	SQLitePath  string `json:"sqlite_path,omitempty"`
	Concurrency int    `json:"concurrency,omitempty"`
}

// ExportResult summarizes a static export run.
type ExportResult struct {
	TaskID      string        `json:"task_id"`
	OutputDir   string        `json:"output_dir"`
	SQLitePath  string        `json:"sqlite_path,omitempty"`
	Fingerprint string        `json:"fingerprint"`
	TotalRoutes int           `json:"total_routes"`
	Written     int           `json:"written"`
	Skipped     []SkippedSlug `json:"skipped,omitempty"`
	Unknown     []string      `json:"unknown,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// SkippedSlug records a route refused by the content-depth gate.
type SkippedSlug struct {
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
}
