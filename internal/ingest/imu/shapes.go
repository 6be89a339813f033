package imu

import "encoding/json"

// PayloadShape describes the top-level structure of a capture payload.
type PayloadShape int

const (
	ShapeSession PayloadShape = iota // Single session: {"exercise": ..., "sets": [...]}
	ShapeBatch                       // Batch export: {"sessions": [...]}
	ShapeFlatReps                    // Legacy firmware: {"exercise": ..., "reps": [...]} with no sets
)

// DetectPayloadShape examines a raw JSON payload to determine which capture
// format it uses.
func DetectPayloadShape(raw json.RawMessage) PayloadShape {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ShapeSession // fallback
	}
	if _, ok := probe["sessions"]; ok {
		return ShapeBatch
	}
	if _, ok := probe["sets"]; ok {
		return ShapeSession
	}
	if _, ok := probe["reps"]; ok {
		return ShapeFlatReps
	}
	return ShapeSession // fallback
}
