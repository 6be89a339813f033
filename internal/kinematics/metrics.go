package kinematics

import (
	"math"

	"github.com/meltforce/repvelocity/internal/models"
)

// RepMetrics is the derived metrics record for one rep. PeakVelocity and
// MeanVelocity are nil when reconstruction was impossible and no device
// precomputed value exists — unavailable is not zero.
type RepMetrics struct {
	RepNumber    int      `json:"rep_number"`
	Duration     float64  `json:"duration_sec"`
	PeakVelocity *float64 `json:"peak_velocity,omitempty"`
	MeanVelocity *float64 `json:"mean_velocity,omitempty"`
	Amplitude    float64  `json:"amplitude"`
	Smoothness   float64  `json:"smoothness"`
	ROM          *float64 `json:"rom,omitempty"`
	ROMUnit      string   `json:"rom_unit,omitempty"`

	// Filled in by the classifier.
	VelocityLossPct float64 `json:"velocity_loss_pct"`
	IsEffective     bool    `json:"is_effective"`
}

// AggregateRep combines the reconstructed velocity profile with the rep's
// externally supplied quality fields into one metrics record. profile may be
// nil when reconstruction failed; the device-precomputed peak velocity then
// stands in if present.
func AggregateRep(rep models.Rep, profile *VelocityProfile, timestampMs []float64, cfg Config) RepMetrics {
	m := RepMetrics{
		RepNumber:  rep.RepNumber,
		Duration:   repDuration(rep, timestampMs),
		Amplitude:  amplitude(rep.ChartData),
		Smoothness: cfg.DefaultSmoothness,
		ROM:        rep.ROM,
		ROMUnit:    rep.ROMUnit,
	}

	if rep.SmoothnessScore != nil {
		m.Smoothness = *rep.SmoothnessScore
	}

	if profile != nil {
		peak, mean := profile.Peak, profile.Mean
		m.PeakVelocity = &peak
		m.MeanVelocity = &mean
	} else if rep.PeakVelocity != nil {
		m.PeakVelocity = rep.PeakVelocity
	}

	return m
}

// repDuration prefers the explicit duration fields, then falls back to the
// span of the normalized timestamps when the capture omitted both.
func repDuration(rep models.Rep, timestampMs []float64) float64 {
	if rep.TimeSec != nil {
		return *rep.TimeSec
	}
	if rep.DurationMs != nil {
		return *rep.DurationMs / 1000
	}
	if n := len(timestampMs); n > 1 && timestampMs[n-1] > timestampMs[0] {
		return (timestampMs[n-1] - timestampMs[0]) / 1000
	}
	return 0
}

// amplitude is the peak-to-trough span of the rep's representative signal
// trace, 0 when the trace is empty.
func amplitude(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	lo := math.Abs(signal[0])
	hi := lo
	for _, x := range signal[1:] {
		a := math.Abs(x)
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}
	return hi - lo
}
