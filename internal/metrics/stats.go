package metrics

import (
	"time"

	"shootout/internal/model"
)

// SourceSummary is a per-source statistics snapshot over a run.
type SourceSummary struct {
	Source       string
	Samples      int
	From         time.Time
	To           time.Time
	FinalCount   int64
	MeanRate     float64 // packets per second over the observed window
	PeakFraction float64
}

// Summarize computes per-source summaries, ordered by each source's first
// appearance in items.
func Summarize(items []model.Sample) []SourceSummary {
	order := make([]string, 0, 4)
	bySource := map[string]*SourceSummary{}

	for _, s := range items {
		sum, ok := bySource[s.Source]
		if !ok {
			sum = &SourceSummary{Source: s.Source, From: s.Timestamp, To: s.Timestamp}
			bySource[s.Source] = sum
			order = append(order, s.Source)
		}
		sum.Samples++
		if s.Timestamp.Before(sum.From) {
			sum.From = s.Timestamp
		}
		if !s.Timestamp.Before(sum.To) {
			sum.To = s.Timestamp
			sum.FinalCount = s.Count
		}
		if s.Fraction > sum.PeakFraction {
			sum.PeakFraction = s.Fraction
		}
	}

	out := make([]SourceSummary, 0, len(order))
	for _, name := range order {
		sum := bySource[name]
		if elapsed := sum.To.Sub(sum.From).Seconds(); elapsed > 0 {
			sum.MeanRate = float64(sum.FinalCount) / elapsed
		}
		out = append(out, *sum)
	}
	return out
}
