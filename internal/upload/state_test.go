package upload

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies the uploaded-file dedupe cycle: unknown file,
// mark, then known file.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	defer state.Close()

	uploaded, err := state.IsUploaded("a/session.json", 100, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploaded {
		t.Error("fresh db should not report uploaded")
	}

	if err := state.MarkUploaded("a/session.json", 100, "abc"); err != nil {
		t.Fatalf("marking uploaded: %v", err)
	}

	uploaded, err = state.IsUploaded("a/session.json", 100, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uploaded {
		t.Error("marked file should report uploaded")
	}

	// A changed file (different hash) must re-upload.
	uploaded, err = state.IsUploaded("a/session.json", 100, "different")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploaded {
		t.Error("changed hash should not report uploaded")
	}
}

// TestStateDBSyncState verifies sync key/value storage with the unset default.
func TestStateDBSyncState(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	defer state.Close()

	v, err := state.GetSyncState("last_upload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "" {
		t.Errorf("unset key = %q, want empty", v)
	}

	if err := state.SetSyncState("last_upload", "2026-08-23T10:00:00Z"); err != nil {
		t.Fatalf("setting sync state: %v", err)
	}
	v, err = state.GetSyncState("last_upload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "2026-08-23T10:00:00Z" {
		t.Errorf("sync state = %q", v)
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.json")
	if err := os.WriteFile(path, []byte(`{"exercise":"Squat"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 != h2 {
		t.Error("hash not stable across reads")
	}

	if err := os.WriteFile(path, []byte(`{"exercise":"Bench"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h3 == h1 {
		t.Error("hash did not change with content")
	}
}
