package upload

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	SessionsSent int
	SetsSent     int64
	RepsSent     int64
	SamplesSent  int64
}

// Uploader walks a capture directory, validates .json capture files, and
// POSTs them to the RepVelocity server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, captureDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    captureDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline over every capture file under the
// directory. Files that fail to parse or send are logged and counted, never
// fatal; a second run picks up whatever the first one missed.
func (u *Uploader) Run() (*Stats, error) {
	if !u.dryRun {
		sessions, reps, err := u.client.FetchStats()
		if err != nil {
			return &u.stats, fmt.Errorf("checking server: %w", err)
		}
		u.log.Info("server reachable", "stored_sessions", sessions, "stored_reps", reps)
	}

	err := filepath.WalkDir(u.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		u.processFile(path)
		return nil
	})
	if err != nil {
		return &u.stats, fmt.Errorf("walking %s: %w", u.dir, err)
	}

	if !u.dryRun && u.stats.FilesUploaded > 0 {
		if err := u.state.SetSyncState("last_upload", time.Now().UTC().Format(time.RFC3339)); err != nil {
			u.log.Warn("failed to save sync state", "error", err)
		}
	}

	return &u.stats, nil
}

func (u *Uploader) processFile(path string) {
	u.stats.FilesTotal++

	relPath, _ := filepath.Rel(u.dir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}
	if uploaded {
		u.stats.FilesSkipped++
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		u.log.Warn("read failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	summary, err := SummarizeCapture(data)
	if err != nil {
		u.log.Warn("parse failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	if summary.Reps == 0 {
		u.stats.FilesSkipped++
		// Mark empty files as uploaded so we don't re-check them.
		_ = u.state.MarkUploaded(relPath, info.Size(), hash)
		return
	}

	if u.dryRun {
		u.log.Info("dry-run: would send",
			"file", relPath,
			"sessions", summary.Sessions,
			"sets", summary.Sets,
			"reps", summary.Reps,
			"samples", summary.Samples,
		)
		u.stats.SessionsSent += summary.Sessions
		u.stats.SetsSent += int64(summary.Sets)
		u.stats.RepsSent += int64(summary.Reps)
		u.stats.SamplesSent += summary.Samples
		return
	}

	result, err := u.client.SendCapture(data)
	if err != nil {
		u.log.Warn("send failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return
	}

	u.stats.SessionsSent += result.SessionsInserted
	u.stats.SetsSent += result.SetsInserted
	u.stats.RepsSent += result.RepsInserted
	u.stats.SamplesSent += result.SamplesReceived

	if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
		u.log.Warn("failed to mark uploaded", "file", relPath, "error", err)
	}
	u.stats.FilesUploaded++

	u.log.Info("uploaded capture",
		"file", relPath,
		"sessions_inserted", result.SessionsInserted,
		"sessions_skipped", result.SessionsSkipped,
		"reps", result.RepsInserted,
	)
}

// ResolveCaptureDir resolves the capture directory from a user-provided path.
// Device sync apps nest exports under a Captures subdirectory; accept either
// the parent or the subdirectory itself.
func ResolveCaptureDir(path string) string {
	if filepath.Base(path) == "Captures" {
		return path
	}
	candidate := filepath.Join(path, "Captures")
	if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
		return candidate
	}
	return path
}
