package imu

import (
	"encoding/json"
	"testing"
)

// TestDetectPayloadShapeSession verifies that a session with nested sets is
// detected as the standard shape.
func TestDetectPayloadShapeSession(t *testing.T) {
	raw := json.RawMessage(`{"exercise":"Bench Press","sets":[{"setNumber":1,"reps":[]}]}`)
	if got := DetectPayloadShape(raw); got != ShapeSession {
		t.Errorf("got %d, want ShapeSession", got)
	}
}

// TestDetectPayloadShapeBatch verifies detection of a multi-session export.
func TestDetectPayloadShapeBatch(t *testing.T) {
	raw := json.RawMessage(`{"sessions":[{"exercise":"Squat","sets":[]}]}`)
	if got := DetectPayloadShape(raw); got != ShapeBatch {
		t.Errorf("got %d, want ShapeBatch", got)
	}
}

// TestDetectPayloadShapeFlatReps verifies detection of legacy payloads that
// carry a top-level rep list with no set grouping.
func TestDetectPayloadShapeFlatReps(t *testing.T) {
	raw := json.RawMessage(`{"exercise":"Curl","reps":[{"repNumber":1,"samples":[]}]}`)
	if got := DetectPayloadShape(raw); got != ShapeFlatReps {
		t.Errorf("got %d, want ShapeFlatReps", got)
	}
}

// TestDetectPayloadShapeMalformed verifies that unparseable payloads fall
// back to the session shape so the decoder reports the real error.
func TestDetectPayloadShapeMalformed(t *testing.T) {
	if got := DetectPayloadShape(json.RawMessage(`not json`)); got != ShapeSession {
		t.Errorf("got %d, want ShapeSession", got)
	}
}
