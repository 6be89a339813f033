package kinematics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// VelocityProfile is the reconstructed velocity for one rep.
type VelocityProfile struct {
	// Velocity holds the signed drift-corrected velocity at each sample, m/s.
	Velocity []float64 `json:"velocity"`

	// Peak and Mean are absolute velocities in m/s.
	Peak float64 `json:"peak"`
	Mean float64 `json:"mean"`

	// GravityBaseline is the estimated resting-magnitude offset subtracted
	// before integration, m/s².
	GravityBaseline float64 `json:"gravity_baseline"`

	// Implausible is set when Peak falls outside the plausible range for a
	// resistance-training rep. The values are still reported as computed.
	Implausible bool `json:"implausible,omitempty"`
}

// ReconstructVelocity integrates net (gravity-corrected) acceleration
// magnitude over time. totalDurationSec is the rep's overall duration and is
// only used for the uniform-spacing fallback when timestamps are unusable.
//
// The inputs must come from Normalize: equal length, at least MinSamples.
func ReconstructVelocity(accelMag, timestampMs []float64, totalDurationSec float64, cfg Config) (*VelocityProfile, error) {
	n := len(accelMag)
	if n < MinSamples || len(timestampMs) != n {
		return nil, ErrInsufficientSamples
	}

	gravity := estimateGravity(accelMag, cfg.GravityWindow)

	net := make([]float64, n)
	for i, m := range accelMag {
		net[i] = m - gravity
	}

	// Trapezoidal integration, v[0] = 0. A rep's first sample legitimately
	// sits at offset 0, so the strictly-positive check sends its interval
	// through the uniform-spacing fallback rather than misreading it.
	uniformDt := 0.0
	if n > 1 {
		uniformDt = totalDurationSec / float64(n-1)
	}

	v := make([]float64, n)
	for i := 1; i < n; i++ {
		dt := uniformDt
		if timestampMs[i] > 0 && timestampMs[i-1] > 0 {
			dt = (timestampMs[i] - timestampMs[i-1]) / 1000
		}
		dt = clampDt(dt, cfg)
		v[i] = v[i-1] + 0.5*(net[i]+net[i-1])*dt
	}

	correctDrift(v)

	abs := make([]float64, n)
	peak := 0.0
	for i, x := range v {
		abs[i] = math.Abs(x)
		if abs[i] > peak {
			peak = abs[i]
		}
	}

	p := &VelocityProfile{
		Velocity:        v,
		Peak:            peak,
		Mean:            stat.Mean(abs, nil),
		GravityBaseline: gravity,
	}
	p.Implausible = peak < MinPlausibleVelocity || peak > MaxPlausibleVelocity
	return p, nil
}

// estimateGravity averages the first min(window, n/4) magnitude samples,
// assuming the rep starts near rest. Falls back to standard gravity when the
// window is empty.
func estimateGravity(accelMag []float64, window int) float64 {
	w := len(accelMag) / 4
	if window < w {
		w = window
	}
	if w == 0 {
		return StandardGravity
	}
	return stat.Mean(accelMag[:w], nil)
}

func clampDt(dt float64, cfg Config) float64 {
	if dt < cfg.MinDt {
		return cfg.MinDt
	}
	if dt > cfg.MaxDt {
		return cfg.MaxDt
	}
	return dt
}

// correctDrift removes the linear drift between the profile's first and last
// values, in place. A rep starts and ends at rest, so any residual velocity
// at the endpoints is integration drift.
func correctDrift(v []float64) {
	n := len(v)
	if n < 2 {
		return
	}
	perSample := (v[n-1] - v[0]) / float64(n-1)
	first := v[0]
	for i := range v {
		v[i] -= first + perSample*float64(i)
	}
}
