package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored capture data.
type DataStats struct {
	TotalSessions int64      `json:"total_sessions"`
	TotalSets     int64      `json:"total_sets"`
	TotalReps     int64      `json:"total_reps"`
	SkippedSets   int64      `json:"skipped_sets"`
	EarliestData  *time.Time `json:"earliest_data"`
	LatestData    *time.Time `json:"latest_data"`

	SessionsByExercise []ExerciseStat `json:"sessions_by_exercise"`
}

// ExerciseStat holds summary stats for a single exercise.
type ExerciseStat struct {
	Exercise      string  `json:"exercise"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
	TotalReps     int64   `json:"total_reps"`
}

// GetDataStats returns aggregate statistics for a user's stored captures.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE skipped) FROM session_sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets, &stats.SkippedSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_reps WHERE user_id = $1`, userID,
	).Scan(&stats.TotalReps)
	if err != nil {
		return nil, fmt.Errorf("counting reps: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(start_time), MAX(start_time) FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT s.exercise,
		        COUNT(*),
		        COALESCE(SUM(s.duration_sec), 0),
		        COALESCE(SUM(rc.reps), 0)
		 FROM sessions s
		 LEFT JOIN (
		     SELECT session_id, COUNT(*)::bigint AS reps
		     FROM session_reps GROUP BY session_id
		 ) rc ON rc.session_id = s.id
		 WHERE s.user_id = $1
		 GROUP BY s.exercise
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by exercise: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var e ExerciseStat
		if err := exRows.Scan(&e.Exercise, &e.Count, &e.TotalDuration, &e.TotalReps); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.SessionsByExercise = append(stats.SessionsByExercise, e)
	}
	return stats, exRows.Err()
}
