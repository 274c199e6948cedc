package session

import (
	"github.com/samber/lo"

	"ovab-go/internal/metrics"
	"ovab-go/internal/models"
)

// Row is one test's line in the results table.
type Row struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Report is everything the results page needs, captured atomically on the
// session loop. Records carry the per-trial latencies for the chart.
type Report struct {
	SessionID string
	Title     string
	Phase     Phase
	Rows      []Row
	Stats     metrics.Snapshot
	Records   []metrics.TrialRecord
	Score     float64
}

func (s *Session) report() Report {
	rows := lo.Map(s.battery.Tests, func(def models.TestDef, _ int) Row {
		summary, done := s.results[def.ID]
		if !done {
			summary = "not run"
		}
		return Row{ID: def.ID, Name: def.Name, Summary: summary}
	})

	snap := s.stats.Snapshot()
	return Report{
		SessionID: s.ID,
		Title:     s.battery.Title,
		Phase:     s.phase,
		Rows:      rows,
		Stats:     snap,
		Records:   s.stats.Records(),
		Score:     compositeScore(snap),
	}
}

// compositeScore folds the aggregate metrics into one 0-100 number: the
// mean of a reaction score (100 at 200 ms or faster, 0 from 1000 ms up)
// and the pursuit accuracy, over whichever components have samples.
func compositeScore(snap metrics.Snapshot) float64 {
	var parts []float64
	if snap.AverageLatency.Calculated {
		parts = append(parts, clamp(100-(snap.AverageLatency.Value-200)/8, 0, 100))
	}
	if snap.Accuracy.Calculated {
		parts = append(parts, snap.Accuracy.Value)
	}
	if len(parts) == 0 {
		return 0
	}
	return lo.Sum(parts) / float64(len(parts))
}

func clamp(v, floor, ceil float64) float64 {
	if v < floor {
		return floor
	}
	if v > ceil {
		return ceil
	}
	return v
}
