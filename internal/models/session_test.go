package models

import (
	"encoding/json"
	"testing"
)

// TestSampleDecodeNumericTimestamp verifies both millisecond fields decode,
// including a literal 0 which must be kept, not treated as missing.
func TestSampleDecodeNumericTimestamp(t *testing.T) {
	var s Sample
	if err := json.Unmarshal([]byte(`{"accelMag": 9.81, "timestamp_ms": 0}`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s.TimestampMs == nil {
		t.Fatal("timestamp_ms = nil, want 0")
	}
	if *s.TimestampMs != 0 {
		t.Errorf("timestamp_ms = %v, want 0", *s.TimestampMs)
	}

	var s2 Sample
	if err := json.Unmarshal([]byte(`{"accelX": 1, "accelY": 2, "accelZ": 3, "timestamp": 125}`), &s2); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !s2.Timestamp.Set {
		t.Fatal("timestamp not set")
	}
	if s2.Timestamp.Millis != 125 {
		t.Errorf("timestamp = %v, want 125", s2.Timestamp.Millis)
	}
}

// TestSampleDecodeClockTimestamp verifies the "MM:SS.mmm" string form.
func TestSampleDecodeClockTimestamp(t *testing.T) {
	var s Sample
	if err := json.Unmarshal([]byte(`{"accelMag": 10.2, "timestamp": "01:02.345"}`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if !s.Timestamp.Set {
		t.Fatal("timestamp not set")
	}
	want := float64(1*60000 + 2*1000 + 345)
	if s.Timestamp.Millis != want {
		t.Errorf("timestamp = %v, want %v", s.Timestamp.Millis, want)
	}
}

func TestSampleDecodeNullTimestamp(t *testing.T) {
	var s Sample
	if err := json.Unmarshal([]byte(`{"accelMag": 9.8, "timestamp": null}`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s.Timestamp.Set {
		t.Error("null timestamp should stay unset")
	}
	if s.TimestampMs != nil {
		t.Error("timestamp_ms should stay nil")
	}
}

func TestSampleDecodeBadTimestamp(t *testing.T) {
	var s Sample
	if err := json.Unmarshal([]byte(`{"timestamp": "yesterday"}`), &s); err == nil {
		t.Error("expected error for unparseable timestamp string")
	}
}

func TestRepDecode(t *testing.T) {
	payload := `{
		"repNumber": 3,
		"durationMs": 1450,
		"smoothnessScore": 82,
		"rom": 41.5,
		"romUnit": "cm",
		"chartData": [0, 1.2, 2.1, 0.4],
		"samples": [
			{"accelMag": 9.81, "timestamp_ms": 0},
			{"accelX": 0.1, "accelY": 9.7, "accelZ": 1.1, "timestamp_ms": 50},
			{"accelMag": 9.9, "timestamp": "00:00.100"}
		]
	}`

	var rep Rep
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if rep.RepNumber != 3 {
		t.Errorf("repNumber = %d, want 3", rep.RepNumber)
	}
	if rep.DurationMs == nil || *rep.DurationMs != 1450 {
		t.Errorf("durationMs = %v, want 1450", rep.DurationMs)
	}
	if rep.TimeSec != nil {
		t.Errorf("time = %v, want nil", rep.TimeSec)
	}
	if len(rep.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(rep.Samples))
	}
	if rep.Samples[2].Timestamp.Millis != 100 {
		t.Errorf("sample 2 timestamp = %v, want 100", rep.Samples[2].Timestamp.Millis)
	}
	if len(rep.ChartData) != 4 {
		t.Errorf("chartData = %d points, want 4", len(rep.ChartData))
	}
}
