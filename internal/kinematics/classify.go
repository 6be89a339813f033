package kinematics

import "gonum.org/v1/gonum/stat"

// RepClassification is the per-rep velocity-loss verdict.
type RepClassification struct {
	RepNumber   int     `json:"rep_number"`
	Velocity    float64 `json:"velocity"`
	DropPct     float64 `json:"drop_pct"`
	IsEffective bool    `json:"is_effective"`
}

// ClassificationResult is the velocity-loss summary for an ordered rep
// sequence.
type ClassificationResult struct {
	Baseline       float64             `json:"baseline"`
	OverallDropPct float64             `json:"overall_drop_pct"`
	EffectiveCount int                 `json:"effective_count"`
	TotalCount     int                 `json:"total_count"`
	ThresholdPct   float64             `json:"threshold_pct"`
	Reps           []RepClassification `json:"reps"`
}

// ClassifyEffectiveness marks each rep effective or fatigued against the
// velocity-loss threshold. The baseline is the mean peak velocity of the
// first baselineReps reps (capped at the rep count). A rep is effective while
// its drop stays strictly below the threshold — a drop exactly at the
// threshold is fatigued.
//
// A non-positive baseline defines every drop as 0 rather than dividing by
// zero, so an all-zero set classifies as fully effective for any positive
// threshold.
func ClassifyEffectiveness(reps []RepMetrics, thresholdPct float64, baselineReps int) ClassificationResult {
	result := ClassificationResult{
		TotalCount:   len(reps),
		ThresholdPct: thresholdPct,
	}
	if len(reps) == 0 {
		return result
	}

	w := baselineReps
	if w < 1 {
		w = 1
	}
	if w > len(reps) {
		w = len(reps)
	}
	baseline := make([]float64, w)
	for i := 0; i < w; i++ {
		baseline[i] = repVelocity(reps[i])
	}
	result.Baseline = stat.Mean(baseline, nil)

	result.Reps = make([]RepClassification, len(reps))
	for i, r := range reps {
		v := repVelocity(r)
		drop := 0.0
		if result.Baseline > 0 {
			drop = (result.Baseline - v) / result.Baseline * 100
		}
		effective := drop < thresholdPct
		if effective {
			result.EffectiveCount++
		}
		result.Reps[i] = RepClassification{
			RepNumber:   r.RepNumber,
			Velocity:    v,
			DropPct:     drop,
			IsEffective: effective,
		}
	}

	if result.Baseline > 0 {
		lastDrop := (result.Baseline - repVelocity(reps[len(reps)-1])) / result.Baseline * 100
		result.OverallDropPct = clamp(lastDrop, 0, 100)
	}
	return result
}

func repVelocity(r RepMetrics) float64 {
	if r.PeakVelocity == nil {
		return 0
	}
	return *r.PeakVelocity
}
