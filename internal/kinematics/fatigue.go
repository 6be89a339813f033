package kinematics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fatigue levels by composite score.
const (
	FatigueMinimal  = "Minimal"
	FatigueLow      = "Low"
	FatigueModerate = "Moderate"
	FatigueHigh     = "High"
	FatigueSevere   = "Severe"
)

// Composite weights: velocity decline dominates, duration creep and
// smoothness loss share the rest.
const (
	fatigueVelocityWeight   = 0.40
	fatigueDurationWeight   = 0.30
	fatigueSmoothnessWeight = 0.30
)

// FatigueResult is the composite fatigue score for an ordered rep sequence.
// The component percentages are floored at 0 but unbounded above: a grinding
// last third can take well over twice the first third's time. Only the
// composite Score is clamped to 0-100.
type FatigueResult struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`

	VelocityDropPct     float64 `json:"velocity_drop_pct"`
	DurationIncreasePct float64 `json:"duration_increase_pct"`
	SmoothnessDropPct   float64 `json:"smoothness_drop_pct"`
}

// ScoreFatigue compares the first third of the reps against the last third on
// peak velocity, duration, and smoothness. Reps without a reconstructed
// velocity contribute to the duration and smoothness comparisons but are
// excluded from the velocity one.
//
// With fewer than 3 reps the thirds degenerate into the same reps, so the
// result falls back to the supplied value or {0, "N/A"}.
func ScoreFatigue(reps []RepMetrics, fallback *FatigueResult) FatigueResult {
	if len(reps) < 3 {
		if fallback != nil {
			return *fallback
		}
		return FatigueResult{Score: 0, Level: LabelNA}
	}

	third := len(reps) / 3
	if third < 1 {
		third = 1
	}
	first := reps[:third]
	last := reps[len(reps)-third:]

	velocityDrop := math.Max(0, percentDrop(meanVelocity(first), meanVelocity(last)))
	durationIncrease := math.Max(0, -percentDrop(meanDuration(first), meanDuration(last)))
	smoothnessDrop := math.Max(0, percentDrop(meanSmoothness(first), meanSmoothness(last)))

	score := clamp((fatigueVelocityWeight*velocityDrop/100+
		fatigueDurationWeight*durationIncrease/100+
		fatigueSmoothnessWeight*smoothnessDrop/100)*100, 0, 100)

	return FatigueResult{
		Score:               score,
		Level:               fatigueLevel(score),
		VelocityDropPct:     velocityDrop,
		DurationIncreasePct: durationIncrease,
		SmoothnessDropPct:   smoothnessDrop,
	}
}

// percentDrop is (first-last)/first*100, 0 when first is not positive.
func percentDrop(first, last float64) float64 {
	if first <= 0 {
		return 0
	}
	return (first - last) / first * 100
}

func meanVelocity(reps []RepMetrics) float64 {
	var vs []float64
	for _, r := range reps {
		if r.PeakVelocity != nil {
			vs = append(vs, *r.PeakVelocity)
		}
	}
	if len(vs) == 0 {
		return 0
	}
	return stat.Mean(vs, nil)
}

func meanDuration(reps []RepMetrics) float64 {
	ds := make([]float64, len(reps))
	for i, r := range reps {
		ds[i] = r.Duration
	}
	return stat.Mean(ds, nil)
}

func meanSmoothness(reps []RepMetrics) float64 {
	ss := make([]float64, len(reps))
	for i, r := range reps {
		ss[i] = r.Smoothness
	}
	return stat.Mean(ss, nil)
}

func fatigueLevel(score float64) string {
	switch {
	case score < 10:
		return FatigueMinimal
	case score < 20:
		return FatigueLow
	case score < 35:
		return FatigueModerate
	case score < 55:
		return FatigueHigh
	default:
		return FatigueSevere
	}
}
