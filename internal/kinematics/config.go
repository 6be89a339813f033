package kinematics

// StandardGravity is the fallback gravity baseline in m/s² when a rep is too
// short to estimate one from its early samples.
const StandardGravity = 9.81

// Plausible peak velocity range for resistance-training reps, in m/s. Values
// outside it are reported as data-quality warnings, never clamped — clamping
// would corrupt the fatigue and consistency scores derived from them.
const (
	MinPlausibleVelocity = 0.1
	MaxPlausibleVelocity = 2.5
)

// Config carries the per-call-site tunables that the capture clients used to
// hardcode with slightly different values on different screens. Consolidating
// them here keeps one session from scoring differently on different pages.
type Config struct {
	// VelocityLossThresholdPct marks a rep fatigued once its drop from the
	// baseline velocity reaches this percentage. Call sites use 10 or 20.
	VelocityLossThresholdPct float64

	// BaselineReps is how many of the earliest reps establish the baseline
	// velocity.
	BaselineReps int

	// GravityWindow caps how many early samples estimate the gravity
	// baseline (further limited to a quarter of the rep's samples).
	GravityWindow int

	// MinDt and MaxDt clamp the integration step in seconds, rejecting
	// corrupted timestamps.
	MinDt float64
	MaxDt float64

	// DefaultSmoothness substitutes for reps the capture device did not
	// score, on the 0-100 scale.
	DefaultSmoothness float64
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		VelocityLossThresholdPct: 20,
		BaselineReps:             2,
		GravityWindow:            3,
		MinDt:                    0.005,
		MaxDt:                    0.2,
		DefaultSmoothness:        70,
	}
}
