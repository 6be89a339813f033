package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// clockTimestampRe matches the "MM:SS.mmm" clock format some capture firmware
// versions emit instead of a millisecond offset.
var clockTimestampRe = regexp.MustCompile(`^(\d+):(\d{1,2})\.(\d{1,3})$`)

// FlexTimestamp handles the two timestamp encodings seen in capture payloads:
// a plain number of milliseconds, or a "MM:SS.mmm" clock string.
//
// Set distinguishes a present zero from an absent field: a sample recorded at
// offset 0 is valid and must not be treated as missing.
type FlexTimestamp struct {
	Millis float64
	Set    bool
}

func (t *FlexTimestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		t.Millis = n
		t.Set = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp is neither number nor string: %s", data)
	}
	ms, err := ParseClockTimestamp(s)
	if err != nil {
		return err
	}
	t.Millis = ms
	t.Set = true
	return nil
}

func (t FlexTimestamp) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return []byte("null"), nil
	}
	return json.Marshal(t.Millis)
}

// ParseClockTimestamp converts "MM:SS.mmm" into milliseconds.
func ParseClockTimestamp(s string) (float64, error) {
	m := clockTimestampRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("cannot parse timestamp %q", s)
	}
	minutes, _ := strconv.ParseFloat(m[1], 64)
	seconds, _ := strconv.ParseFloat(m[2], 64)
	millis, _ := strconv.ParseFloat(m[3], 64)
	return minutes*60000 + seconds*1000 + millis, nil
}

// Sample is one IMU reading within a rep. Accelerometer components are in
// m/s²; capture devices may send a precomputed magnitude instead of (or in
// addition to) the component axes. Gyroscope rates are in °/s when present.
type Sample struct {
	AccelX   *float64 `json:"accelX,omitempty"`
	AccelY   *float64 `json:"accelY,omitempty"`
	AccelZ   *float64 `json:"accelZ,omitempty"`
	AccelMag *float64 `json:"accelMag,omitempty"`

	GyroX *float64 `json:"gyroX,omitempty"`
	GyroY *float64 `json:"gyroY,omitempty"`
	GyroZ *float64 `json:"gyroZ,omitempty"`

	// TimestampMs is the millisecond offset from rep start. Timestamp is the
	// older field carrying either a number or a "MM:SS.mmm" string.
	TimestampMs *float64      `json:"timestamp_ms,omitempty"`
	Timestamp   FlexTimestamp `json:"timestamp,omitzero"`
}

// Rep is one repetition: the ordered sample stream plus quality fields the
// capture device classifies on-device. TimeSec is the duration in seconds,
// PeakVelocity a device-precomputed value, and ChartData a representative
// signal trace for display.
type Rep struct {
	RepNumber       int       `json:"repNumber"`
	TimeSec         *float64  `json:"time,omitempty"`
	DurationMs      *float64  `json:"durationMs,omitempty"`
	PeakVelocity    *float64  `json:"peakVelocity,omitempty"`
	SmoothnessScore *float64  `json:"smoothnessScore,omitempty"`
	Classification  string    `json:"classification,omitempty"`
	ROM             *float64  `json:"rom,omitempty"`
	ROMUnit         string    `json:"romUnit,omitempty"`
	ChartData       []float64 `json:"chartData,omitempty"`
	Samples         []Sample  `json:"samples"`
}

// Set is an ordered group of reps sharing a set number. A planned set the
// lifter never started is marked Skipped rather than stored with zero reps.
type Set struct {
	SetNumber   int   `json:"setNumber"`
	PlannedReps int   `json:"plannedReps,omitempty"`
	Skipped     bool  `json:"skipped,omitempty"`
	Reps        []Rep `json:"reps"`
}

// Session is one exercise/equipment/weight combination's worth of sets.
type Session struct {
	ID          uuid.UUID  `json:"id"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	Exercise    string     `json:"exercise"`
	Equipment   string     `json:"equipment,omitempty"`
	WeightKg    float64    `json:"weightKg,omitempty"`
	PlannedSets int        `json:"plannedSets,omitempty"`
	PlannedReps int        `json:"plannedReps,omitempty"`
	DurationSec float64    `json:"durationSec,omitempty"`
	Calories    float64    `json:"calories,omitempty"`
	Sets        []Set      `json:"sets"`

	// Store original JSON for fields we don't explicitly model
	RawJSON json.RawMessage `json:"-"`
}
