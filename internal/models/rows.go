package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionRow is a row ready for insertion into the sessions table.
type SessionRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	Exercise    string    `json:"exercise"`
	Equipment   string    `json:"equipment,omitempty"`
	WeightKg    float64   `json:"weight_kg,omitempty"`
	StartTime   time.Time `json:"start_time"`
	DurationSec float64   `json:"duration_sec,omitempty"`
	Calories    float64   `json:"calories,omitempty"`
	PlannedSets int       `json:"planned_sets,omitempty"`
	PlannedReps int       `json:"planned_reps,omitempty"`
	RawJSON     []byte    `json:"-"`
}

// SetRow is a row ready for insertion into the session_sets table.
type SetRow struct {
	SessionID   uuid.UUID `json:"session_id"`
	UserID      int       `json:"user_id"`
	SetNumber   int       `json:"set_number"`
	PlannedReps int       `json:"planned_reps,omitempty"`
	Skipped     bool      `json:"skipped,omitempty"`
}

// RepRow is a row ready for insertion into the session_reps table. The raw
// sample stream is stored as JSONB so capture payloads survive round-trips
// even when firmware adds fields we don't model.
type RepRow struct {
	SessionID       uuid.UUID `json:"session_id"`
	UserID          int       `json:"user_id"`
	SetNumber       int       `json:"set_number"`
	RepNumber       int       `json:"rep_number"`
	TimeSec         *float64  `json:"time_sec,omitempty"`
	DurationMs      *float64  `json:"duration_ms,omitempty"`
	PeakVelocity    *float64  `json:"peak_velocity,omitempty"`
	SmoothnessScore *float64  `json:"smoothness_score,omitempty"`
	Classification  string    `json:"classification,omitempty"`
	ROM             *float64  `json:"rom,omitempty"`
	ROMUnit         string    `json:"rom_unit,omitempty"`
	ChartData       []float64 `json:"chart_data,omitempty"`
	SamplesJSON     []byte    `json:"-"`
}
