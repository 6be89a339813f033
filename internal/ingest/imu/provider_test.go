package imu

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/meltforce/repvelocity/internal/models"
)

// TestDecodeSessionsSingle verifies decoding of a standard single-session
// payload with nested sets.
func TestDecodeSessionsSingle(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"exercise": "Bench Press",
		"equipment": "barbell",
		"weightKg": 80,
		"sets": [
			{"setNumber": 1, "reps": [
				{"repNumber": 1, "peakVelocity": 0.85, "samples": [
					{"accelMag": 10.2, "timestamp_ms": 0},
					{"accelMag": 11.4, "timestamp_ms": 50}
				]}
			]}
		]
	}`)

	sessions, err := DecodeSessions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Exercise != "Bench Press" {
		t.Errorf("exercise = %q", s.Exercise)
	}
	if len(s.Sets) != 1 || len(s.Sets[0].Reps) != 1 {
		t.Fatalf("sets/reps not decoded: %+v", s.Sets)
	}
	if len(s.Sets[0].Reps[0].Samples) != 2 {
		t.Errorf("samples = %d, want 2", len(s.Sets[0].Reps[0].Samples))
	}
	if len(s.RawJSON) == 0 {
		t.Error("raw JSON not preserved")
	}
}

// TestDecodeSessionsBatch verifies decoding of a multi-session export.
func TestDecodeSessionsBatch(t *testing.T) {
	raw := json.RawMessage(`{"sessions":[
		{"exercise":"Squat","sets":[]},
		{"exercise":"Deadlift","sets":[]}
	]}`)

	sessions, err := DecodeSessions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].Exercise != "Squat" || sessions[1].Exercise != "Deadlift" {
		t.Errorf("exercises = %q, %q", sessions[0].Exercise, sessions[1].Exercise)
	}
}

// TestDecodeSessionsFlatReps verifies that a legacy flat-rep payload becomes
// a single session with one set holding all reps.
func TestDecodeSessionsFlatReps(t *testing.T) {
	raw := json.RawMessage(`{
		"exercise": "Curl",
		"reps": [
			{"repNumber": 1, "samples": []},
			{"repNumber": 2, "samples": []}
		]
	}`)

	sessions, err := DecodeSessions(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if len(s.Sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(s.Sets))
	}
	if s.Sets[0].SetNumber != 1 {
		t.Errorf("set number = %d, want 1", s.Sets[0].SetNumber)
	}
	if len(s.Sets[0].Reps) != 2 {
		t.Errorf("reps = %d, want 2", len(s.Sets[0].Reps))
	}
}

// TestDecodeSessionsMalformed verifies that garbage input surfaces a parse
// error rather than an empty result.
func TestDecodeSessionsMalformed(t *testing.T) {
	if _, err := DecodeSessions(json.RawMessage(`{"sets": 42}`)); err == nil {
		t.Fatal("expected parse error")
	}
}

// TestConvertSets verifies flattening a session into row types with sample
// counting and JSONB encoding.
func TestConvertSets(t *testing.T) {
	ts := func(v float64) *float64 { return &v }
	s := &models.Session{
		ID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Sets: []models.Set{
			{SetNumber: 1, PlannedReps: 5, Reps: []models.Rep{
				{RepNumber: 1, PeakVelocity: ts(0.9), Samples: []models.Sample{
					{AccelMag: ts(10.0), TimestampMs: ts(0)},
					{AccelMag: ts(11.0), TimestampMs: ts(50)},
				}},
				{RepNumber: 2, Samples: nil},
			}},
			{SetNumber: 2, Skipped: true},
		},
	}

	setRows, repRows, samples, err := ConvertSets(s, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(setRows) != 2 {
		t.Fatalf("set rows = %d, want 2", len(setRows))
	}
	if !setRows[1].Skipped {
		t.Error("skipped flag lost")
	}
	if len(repRows) != 2 {
		t.Fatalf("rep rows = %d, want 2", len(repRows))
	}
	if samples != 2 {
		t.Errorf("samples = %d, want 2", samples)
	}
	if repRows[0].UserID != 7 || repRows[0].SetNumber != 1 {
		t.Errorf("rep row keys = user %d set %d", repRows[0].UserID, repRows[0].SetNumber)
	}
	if len(repRows[0].SamplesJSON) == 0 {
		t.Error("samples not encoded")
	}
	if repRows[1].SamplesJSON != nil {
		t.Error("empty sample stream should encode as nil")
	}

	// Round-trip the encoded stream to confirm nothing was dropped.
	var decoded []models.Sample
	if err := json.Unmarshal(repRows[0].SamplesJSON, &decoded); err != nil {
		t.Fatalf("decoding samples: %v", err)
	}
	if len(decoded) != 2 || decoded[1].TimestampMs == nil || *decoded[1].TimestampMs != 50 {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}
