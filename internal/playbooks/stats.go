// internal/playbooks/stats.go
package playbooks

// DetectorStats are the published figures quoted on detector pages.
type DetectorStats struct {
	// Accuracy is the detector's claimed accuracy on raw AI text, in percent.
	Accuracy int
	// BypassRate is the share of SolidWrite outputs scored as human, in percent.
	BypassRate int
	// FalsePositiveRate is the share of human essays flagged as AI, in percent.
	FalsePositiveRate float64
	// SamplesTested is the size of the benchmark behind the figures.
	SamplesTested int
}

var detectorStats = map[string]DetectorStats{
	"turnitin":       {Accuracy: 98, BypassRate: 94, FalsePositiveRate: 1.0, SamplesTested: 1200},
	"gptzero":        {Accuracy: 96, BypassRate: 97, FalsePositiveRate: 2.1, SamplesTested: 1500},
	"originality-ai": {Accuracy: 99, BypassRate: 91, FalsePositiveRate: 2.8, SamplesTested: 1100},
	"copyleaks":      {Accuracy: 97, BypassRate: 95, FalsePositiveRate: 1.4, SamplesTested: 900},
	"zerogpt":        {Accuracy: 92, BypassRate: 98, FalsePositiveRate: 4.5, SamplesTested: 1000},
	"winston-ai":     {Accuracy: 97, BypassRate: 93, FalsePositiveRate: 1.9, SamplesTested: 800},
}

var defaultDetectorStats = DetectorStats{Accuracy: 94, BypassRate: 95, FalsePositiveRate: 3.0, SamplesTested: 500}

// StatsFor returns the figures for a detector slug, falling back to the
// default row for detectors without their own benchmark.
func StatsFor(slug string) DetectorStats {
	if s, ok := detectorStats[slug]; ok {
		return s
	}
	return defaultDetectorStats
}
