package stats

import (
	"context"

	"github.com/verte-zerg/fightclock/internal/model"
)

// MatchLister loads match records.
type MatchLister interface {
	ListMatches(ctx context.Context, cfg model.HistoryConfig) ([]model.MatchRecord, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Matches []model.MatchRecord
	Summary Summary
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src MatchLister, cfg model.HistoryConfig) (Report, error) {
	matches, err := src.ListMatches(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Matches: matches,
		Summary: Summarize(matches),
	}, nil
}

// ElapsedSeries returns elapsed minutes per match, oldest first.
func ElapsedSeries(matches []model.MatchRecord) []float64 {
	out := make([]float64, len(matches))
	for i, m := range matches {
		out[i] = float64(m.ElapsedMs) / 60000.0
	}
	return out
}
