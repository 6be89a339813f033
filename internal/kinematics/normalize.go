// Package kinematics turns raw per-rep IMU sample streams into derived
// training metrics: velocity reconstruction from acceleration, consistency
// and fatigue scoring, and velocity-loss effectiveness classification.
//
// Every function here is a pure function of its inputs. The package never
// performs I/O and never mutates the models it reads, so callers may run
// analyses for different sessions concurrently without coordination.
package kinematics

import (
	"errors"
	"math"

	"github.com/meltforce/repvelocity/internal/models"
)

// MinSamples is the minimum sample count for velocity reconstruction: the
// trapezoidal integration needs at least one interior interval.
const MinSamples = 3

// ErrInsufficientSamples is returned when a rep carries fewer than MinSamples
// samples. Callers must treat peak/mean velocity as unavailable for that rep,
// not zero.
var ErrInsufficientSamples = errors.New("insufficient samples for velocity reconstruction")

// Normalize validates a rep's raw sample records and extracts two aligned
// series: acceleration magnitude (m/s²) and timestamp (milliseconds from rep
// start).
//
// Magnitude uses the device-supplied accelMag when present, otherwise
// sqrt(x²+y²+z²) with missing axes as 0. Timestamps resolve in order:
// timestamp_ms (explicit nil check — a literal 0 is a valid first-sample
// offset), the generic timestamp field (number or "MM:SS.mmm" string, already
// decoded by models.FlexTimestamp), then 0.
func Normalize(samples []models.Sample) (accelMag, timestampMs []float64, err error) {
	if len(samples) < MinSamples {
		return nil, nil, ErrInsufficientSamples
	}

	accelMag = make([]float64, len(samples))
	timestampMs = make([]float64, len(samples))

	for i, s := range samples {
		accelMag[i] = magnitude(s)
		timestampMs[i] = resolveTimestamp(s)
	}
	return accelMag, timestampMs, nil
}

func magnitude(s models.Sample) float64 {
	if s.AccelMag != nil {
		return *s.AccelMag
	}
	var x, y, z float64
	if s.AccelX != nil {
		x = *s.AccelX
	}
	if s.AccelY != nil {
		y = *s.AccelY
	}
	if s.AccelZ != nil {
		z = *s.AccelZ
	}
	return math.Sqrt(x*x + y*y + z*z)
}

func resolveTimestamp(s models.Sample) float64 {
	if s.TimestampMs != nil {
		return *s.TimestampMs
	}
	if s.Timestamp.Set {
		return s.Timestamp.Millis
	}
	return 0
}
