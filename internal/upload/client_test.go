package upload

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSendCapture verifies the client posts to the ingest endpoint with the
// API key and decodes the server's result.
func TestSendCapture(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sessions_received":1,"sessions_inserted":1,"sets_inserted":2,"reps_inserted":8,"samples_received":640}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	result, err := c.SendCapture([]byte(`{"exercise":"Squat","sets":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key = %q, want %q", gotKey, "test-key")
	}
	if gotPath != "/api/v1/ingest/" {
		t.Errorf("path = %q", gotPath)
	}
	if result.RepsInserted != 8 || result.SamplesReceived != 640 {
		t.Errorf("result = %+v", result)
	}
}

// TestSendCaptureNoRetryOn4xx verifies client errors fail fast instead of
// retrying a payload the server already rejected.
func TestSendCaptureNoRetryOn4xx(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.SendCapture([]byte(`{}`)); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

// TestFetchStats verifies the connectivity check decodes counts.
func TestFetchStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_sessions":5,"total_reps":120}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	sessions, reps, err := c.FetchStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions != 5 || reps != 120 {
		t.Errorf("stats = %d sessions, %d reps", sessions, reps)
	}
}
