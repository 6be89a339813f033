package kinematics

import (
	"errors"
	"fmt"

	"github.com/meltforce/repvelocity/internal/models"
)

// Warning codes for data-quality conditions. These are recoverable: the
// offending rep is flagged or excluded, never the whole session.
const (
	WarnInsufficientSamples = "insufficient_samples"
	WarnImplausibleVelocity = "implausible_velocity"
)

// Warning flags a data-quality condition on one rep.
type Warning struct {
	SetNumber int    `json:"set_number,omitempty"`
	RepNumber int    `json:"rep_number"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// RepAnalysis pairs a rep's metrics with its reconstructed velocity profile.
// Profile is nil when the rep had too few samples to reconstruct.
type RepAnalysis struct {
	Metrics RepMetrics       `json:"metrics"`
	Profile *VelocityProfile `json:"profile,omitempty"`
}

// SetAnalysis is the full pipeline output for one set.
type SetAnalysis struct {
	SetNumber int  `json:"set_number"`
	Skipped   bool `json:"skipped,omitempty"`

	Reps           []RepAnalysis        `json:"reps,omitempty"`
	Consistency    ConsistencyResult    `json:"consistency"`
	Fatigue        FatigueResult        `json:"fatigue"`
	Classification ClassificationResult `json:"classification"`
	Warnings       []Warning            `json:"warnings,omitempty"`
}

// SessionAnalysis is the pipeline output for a whole session. The session
// scores run over the concatenated rep sequence so the three scorers see the
// same array and stay mutually consistent.
type SessionAnalysis struct {
	Sets []SetAnalysis `json:"sets"`

	Consistency    ConsistencyResult    `json:"consistency"`
	Fatigue        FatigueResult        `json:"fatigue"`
	Classification ClassificationResult `json:"classification"`
	Warnings       []Warning            `json:"warnings,omitempty"`
}

// AnalyzeRep runs normalization, velocity reconstruction, and metric
// aggregation for a single rep. Reconstruction failures are reported as
// warnings, not errors; the metrics record is still produced with velocity
// unavailable.
func AnalyzeRep(rep models.Rep, cfg Config) (RepAnalysis, []Warning) {
	var warnings []Warning

	accelMag, timestampMs, err := Normalize(rep.Samples)
	if err != nil {
		if errors.Is(err, ErrInsufficientSamples) {
			warnings = append(warnings, Warning{
				RepNumber: rep.RepNumber,
				Code:      WarnInsufficientSamples,
				Message:   fmt.Sprintf("rep %d has %d samples, need %d", rep.RepNumber, len(rep.Samples), MinSamples),
			})
		}
		return RepAnalysis{Metrics: AggregateRep(rep, nil, nil, cfg)}, warnings
	}

	duration := repDuration(rep, timestampMs)
	profile, err := ReconstructVelocity(accelMag, timestampMs, duration, cfg)
	if err != nil {
		// Normalize already enforced the sample minimum.
		return RepAnalysis{Metrics: AggregateRep(rep, nil, timestampMs, cfg)}, warnings
	}

	if profile.Implausible {
		warnings = append(warnings, Warning{
			RepNumber: rep.RepNumber,
			Code:      WarnImplausibleVelocity,
			Message: fmt.Sprintf("rep %d peak velocity %.2f m/s outside plausible range [%.1f, %.1f]",
				rep.RepNumber, profile.Peak, MinPlausibleVelocity, MaxPlausibleVelocity),
		})
	}

	return RepAnalysis{
		Metrics: AggregateRep(rep, profile, timestampMs, cfg),
		Profile: profile,
	}, warnings
}

// AnalyzeSet runs the pipeline over one set. A skipped set keeps its explicit
// marker and gets no scores — it must stay distinguishable from a set whose
// reps all scored zero.
func AnalyzeSet(set models.Set, cfg Config) SetAnalysis {
	analysis := SetAnalysis{
		SetNumber: set.SetNumber,
		Skipped:   set.Skipped,
	}
	if set.Skipped || len(set.Reps) == 0 {
		analysis.Skipped = true
		analysis.Consistency = ConsistencyResult{Label: LabelNA}
		analysis.Fatigue = FatigueResult{Level: LabelNA}
		return analysis
	}

	metrics := make([]RepMetrics, 0, len(set.Reps))
	for _, rep := range set.Reps {
		ra, warns := AnalyzeRep(rep, cfg)
		for i := range warns {
			warns[i].SetNumber = set.SetNumber
		}
		analysis.Warnings = append(analysis.Warnings, warns...)
		analysis.Reps = append(analysis.Reps, ra)
		metrics = append(metrics, ra.Metrics)
	}

	scoreMetrics(&analysis.Consistency, &analysis.Fatigue, &analysis.Classification, metrics, cfg)

	// Copy classifier verdicts back onto the per-rep records.
	for i, rc := range analysis.Classification.Reps {
		analysis.Reps[i].Metrics.VelocityLossPct = rc.DropPct
		analysis.Reps[i].Metrics.IsEffective = rc.IsEffective
	}
	return analysis
}

// AnalyzeSession runs the pipeline over every set and scores the session on
// the concatenated rep sequence.
func AnalyzeSession(session models.Session, cfg Config) SessionAnalysis {
	analysis := SessionAnalysis{}

	var all []RepMetrics
	for _, set := range session.Sets {
		sa := AnalyzeSet(set, cfg)
		analysis.Warnings = append(analysis.Warnings, sa.Warnings...)
		analysis.Sets = append(analysis.Sets, sa)
		if !sa.Skipped {
			for _, ra := range sa.Reps {
				all = append(all, ra.Metrics)
			}
		}
	}

	scoreMetrics(&analysis.Consistency, &analysis.Fatigue, &analysis.Classification, all, cfg)
	return analysis
}

func scoreMetrics(c *ConsistencyResult, f *FatigueResult, cl *ClassificationResult, metrics []RepMetrics, cfg Config) {
	*c = ScoreConsistency(metrics, nil)
	*f = ScoreFatigue(metrics, nil)
	*cl = ClassifyEffectiveness(metrics, cfg.VelocityLossThresholdPct, cfg.BaselineReps)
}
