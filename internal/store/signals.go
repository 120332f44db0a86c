// internal/store/signals.go
package store

import (
	"context"
	"errors"
	"math"

	"rekonet-workers/internal/readiness"
)

// LoadSignals turns stored activity, CV and interview records into the
// percentages the progress scorer expects. Missing records count as 0. The
// interview session total is read against maxInterviewScore.
func LoadSignals(ctx context.Context, s SignalStore, assessmentID string, totalActivities int, maxInterviewScore float64) (readiness.ProgressSignals, error) {
	var sig readiness.ProgressSignals

	done, err := s.CountCompletedActivities(ctx, assessmentID)
	if err != nil {
		return sig, err
	}
	if totalActivities > 0 {
		sig.ActivitiesPct = pct(float64(done) / float64(totalActivities) * 100)
	}

	cv, err := s.LatestCVScore(ctx, assessmentID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return sig, err
	}
	sig.CVPct = pct(cv)

	interview, err := s.InterviewSessionScore(ctx, assessmentID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return sig, err
	}
	if maxInterviewScore > 0 {
		sig.InterviewPct = pct(math.Min(interview, maxInterviewScore) / maxInterviewScore * 100)
	}

	return sig, nil
}

func pct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 100)
}
