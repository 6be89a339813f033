package upload

import (
	"testing"
)

// TestSummarizeCaptureSession verifies counting for a standard nested-set
// capture file.
func TestSummarizeCaptureSession(t *testing.T) {
	data := []byte(`{
		"exercise": "Bench Press",
		"sets": [
			{"setNumber": 1, "reps": [
				{"repNumber": 1, "samples": [{"accelMag": 10.1}, {"accelMag": 10.4}]},
				{"repNumber": 2, "samples": [{"accelMag": 10.2}]}
			]},
			{"setNumber": 2, "skipped": true, "reps": []}
		]
	}`)

	s, err := SummarizeCapture(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sessions != 1 || s.Sets != 2 || s.Reps != 2 || s.Samples != 3 {
		t.Errorf("summary = %+v, want 1 session, 2 sets, 2 reps, 3 samples", s)
	}
}

// TestSummarizeCaptureBatch verifies counting across a multi-session export.
func TestSummarizeCaptureBatch(t *testing.T) {
	data := []byte(`{"sessions": [
		{"exercise": "Squat", "sets": [{"setNumber": 1, "reps": [{"repNumber": 1, "samples": []}]}]},
		{"exercise": "Deadlift", "sets": []}
	]}`)

	s, err := SummarizeCapture(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sessions != 2 || s.Sets != 1 || s.Reps != 1 {
		t.Errorf("summary = %+v, want 2 sessions, 1 set, 1 rep", s)
	}
}

// TestSummarizeCaptureFlatReps verifies that legacy flat-rep files count as
// one session with one implicit set.
func TestSummarizeCaptureFlatReps(t *testing.T) {
	data := []byte(`{
		"exercise": "Curl",
		"reps": [
			{"repNumber": 1, "samples": [{"accelMag": 9.9}]},
			{"repNumber": 2, "samples": [{"accelMag": 10.0}]}
		]
	}`)

	s, err := SummarizeCapture(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sessions != 1 || s.Sets != 1 || s.Reps != 2 || s.Samples != 2 {
		t.Errorf("summary = %+v, want 1 session, 1 set, 2 reps, 2 samples", s)
	}
}

// TestSummarizeCaptureMalformed verifies unparseable files are rejected.
func TestSummarizeCaptureMalformed(t *testing.T) {
	for _, data := range []string{`not json`, `{"sessions": "nope"}`, `{"reps": 42}`} {
		if _, err := SummarizeCapture([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}
