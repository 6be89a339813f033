package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/repvelocity/internal/kinematics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(nil, nil, "secret", kinematics.DefaultConfig(), slog.Default())
}

// TestIngestRequiresAPIKey verifies that the ingest route rejects requests
// without a key before touching the provider or database.
func TestIngestRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestDeleteSessionRequiresAPIKey verifies that session deletion rejects
// requests without a key before touching the database.
func TestDeleteSessionRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete,
		"/api/v1/sessions/5b9116fc-40bb-4f05-a2e5-ba2328b85b6a", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestDeleteSessionInvalidID verifies that a malformed session ID gets 400
// even with a valid key.
func TestDeleteSessionInvalidID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/not-a-uuid", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestGetSessionInvalidID verifies that a malformed session ID gets 400
// without a database lookup.
func TestGetSessionInvalidID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestAnalysisThresholdValidation verifies that an out-of-range threshold
// parameter is rejected before the session is loaded.
func TestAnalysisThresholdValidation(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []string{"0", "-5", "150", "abc"} {
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/sessions/not-a-uuid/analysis?threshold="+tc, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("threshold %q: status = %d, want 400", tc, rec.Code)
		}
	}
}

// TestParseTimeRangeDefault verifies the default window is the last 30 days.
func TestParseTimeRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := end.Sub(start); got < 29*24*time.Hour || got > 31*24*time.Hour {
		t.Errorf("window = %v, want ~30 days", got)
	}
}

// TestParseTimeRangeDateOnly verifies date-only params parse and the end date
// extends to end of day.
func TestParseTimeRangeDateOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/sessions?start=2026-01-01&end=2026-01-31", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("start = %v", start)
	}
	if want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

// TestParseTimeRangeRFC3339 verifies full timestamps are accepted.
func TestParseTimeRangeRFC3339(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/sessions?start=2026-01-01T10:00:00Z&end=2026-01-01T12:00:00Z", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Sub(start) != 2*time.Hour {
		t.Errorf("window = %v, want 2h", end.Sub(start))
	}
}

// TestParseTimeRangeBadStart verifies an unparseable start is an error.
func TestParseTimeRangeBadStart(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=yesterday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Fatal("expected parse error")
	}
}
