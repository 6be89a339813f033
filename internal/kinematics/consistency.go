package kinematics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Consistency labels by score.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelNeedsWork = "Needs Work"
	LabelNA        = "N/A"
)

// ConsistencyResult scores how uniform a set's reps were, 0-100. The CV
// fields are coefficients of variation reported as percentages.
type ConsistencyResult struct {
	Score          float64 `json:"score"`
	DurationCVPct  float64 `json:"duration_cv_pct"`
	AmplitudeCVPct float64 `json:"amplitude_cv_pct"`
	Label          string  `json:"label"`
}

// ScoreConsistency computes the consistency score from the coefficient of
// variation of rep duration and amplitude. With fewer than 2 reps there is no
// variation to measure: the score defaults to fallback (or 100) and the label
// is "N/A".
func ScoreConsistency(reps []RepMetrics, fallback *float64) ConsistencyResult {
	if len(reps) < 2 {
		score := 100.0
		if fallback != nil {
			score = *fallback
		}
		return ConsistencyResult{Score: score, Label: LabelNA}
	}

	durations := make([]float64, len(reps))
	amplitudes := make([]float64, len(reps))
	for i, r := range reps {
		durations[i] = r.Duration
		amplitudes[i] = r.Amplitude
	}

	durationCV := coefficientOfVariation(durations)
	amplitudeCV := coefficientOfVariation(amplitudes)

	score := clamp(100-math.Min(100, (durationCV+amplitudeCV)*50), 0, 100)

	return ConsistencyResult{
		Score:          score,
		DurationCVPct:  durationCV * 100,
		AmplitudeCVPct: amplitudeCV * 100,
		Label:          consistencyLabel(score),
	}
}

// coefficientOfVariation is stddev/mean, 0 when the mean is 0.
func coefficientOfVariation(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	if mean == 0 {
		return 0
	}
	return stat.PopStdDev(xs, nil) / mean
}

func consistencyLabel(score float64) string {
	switch {
	case score >= 90:
		return LabelExcellent
	case score >= 75:
		return LabelGood
	case score >= 60:
		return LabelFair
	default:
		return LabelNeedsWork
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
