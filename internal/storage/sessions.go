package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/repvelocity/internal/models"
)

// InsertSession inserts a session row. Returns true if inserted, false if
// duplicate.
func (db *DB) InsertSession(ctx context.Context, row models.SessionRow) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, exercise, equipment, weight_kg, start_time,
		 duration_sec, calories, planned_sets, planned_reps, raw_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT DO NOTHING`,
		row.ID, row.UserID, row.Exercise, row.Equipment, row.WeightKg, row.StartTime,
		row.DurationSec, row.Calories, row.PlannedSets, row.PlannedReps, row.RawJSON)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertSets batch-inserts set rows for a session. Returns count inserted.
func (db *DB) InsertSets(ctx context.Context, rows []models.SetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO session_sets (session_id, user_id, set_number, planned_reps, skipped) VALUES `
	args := make([]any, 0, len(rows)*5)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, r.SessionID, r.UserID, r.SetNumber, r.PlannedReps, r.Skipped)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertReps batch-inserts rep rows. Returns count inserted.
func (db *DB) InsertReps(ctx context.Context, rows []models.RepRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO session_reps (session_id, user_id, set_number, rep_number,
		time_sec, duration_ms, peak_velocity, smoothness_score, classification,
		rom, rom_unit, chart_data, samples) VALUES `
	args := make([]any, 0, len(rows)*13)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 13
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
		))
		args = append(args, r.SessionID, r.UserID, r.SetNumber, r.RepNumber,
			r.TimeSec, r.DurationMs, r.PeakVelocity, r.SmoothnessScore, r.Classification,
			r.ROM, r.ROMUnit, r.ChartData, r.SamplesJSON)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting reps: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySessions retrieves session rows in a date range, newest first, with an
// optional case-insensitive exercise filter.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.SessionRow, error) {
	query := `SELECT id, user_id, exercise, equipment, weight_kg, start_time,
		 duration_sec, calories, planned_sets, planned_reps
		 FROM sessions
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3`
	args := []any{start, end, userID}

	if exerciseFilter != "" {
		query += ` AND exercise ILIKE '%' || $4 || '%'`
		args = append(args, exerciseFilter)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRow
	for rows.Next() {
		var r models.SessionRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Exercise, &r.Equipment, &r.WeightKg,
			&r.StartTime, &r.DurationSec, &r.Calories, &r.PlannedSets, &r.PlannedReps); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetSession assembles a full session — sets, reps, and raw sample streams —
// ready for the analysis pipeline.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Session, error) {
	var s models.Session
	err := db.Pool.QueryRow(ctx,
		`SELECT id, exercise, equipment, weight_kg, start_time, duration_sec, calories, planned_sets, planned_reps
		 FROM sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&s.ID, &s.Exercise, &s.Equipment, &s.WeightKg, &s.StartTime, &s.DurationSec,
		&s.Calories, &s.PlannedSets, &s.PlannedReps)
	if err != nil {
		return nil, fmt.Errorf("querying session %s: %w", sessionID, err)
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT set_number, planned_reps, skipped FROM session_sets
		 WHERE session_id = $1 ORDER BY set_number ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	setsByNumber := map[int]*models.Set{}
	var order []int
	for setRows.Next() {
		var set models.Set
		if err := setRows.Scan(&set.SetNumber, &set.PlannedReps, &set.Skipped); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		setsByNumber[set.SetNumber] = &set
		order = append(order, set.SetNumber)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	repRows, err := db.Pool.Query(ctx,
		`SELECT set_number, rep_number, time_sec, duration_ms, peak_velocity,
		 smoothness_score, classification, rom, rom_unit, chart_data, samples
		 FROM session_reps
		 WHERE session_id = $1 ORDER BY set_number ASC, rep_number ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying reps: %w", err)
	}
	defer repRows.Close()

	for repRows.Next() {
		var setNumber int
		var rep models.Rep
		var classification, romUnit *string
		var samplesJSON []byte
		if err := repRows.Scan(&setNumber, &rep.RepNumber, &rep.TimeSec, &rep.DurationMs,
			&rep.PeakVelocity, &rep.SmoothnessScore, &classification,
			&rep.ROM, &romUnit, &rep.ChartData, &samplesJSON); err != nil {
			return nil, fmt.Errorf("scanning rep: %w", err)
		}
		if classification != nil {
			rep.Classification = *classification
		}
		if romUnit != nil {
			rep.ROMUnit = *romUnit
		}
		if len(samplesJSON) > 0 {
			if err := json.Unmarshal(samplesJSON, &rep.Samples); err != nil {
				return nil, fmt.Errorf("decoding samples for rep %d: %w", rep.RepNumber, err)
			}
		}

		set, ok := setsByNumber[setNumber]
		if !ok {
			// Rep without a set row — tolerate older captures that only
			// sent reps.
			set = &models.Set{SetNumber: setNumber}
			setsByNumber[setNumber] = set
			order = append(order, setNumber)
		}
		set.Reps = append(set.Reps, rep)
	}
	if err := repRows.Err(); err != nil {
		return nil, err
	}

	for _, n := range order {
		s.Sets = append(s.Sets, *setsByNumber[n])
	}
	return &s, nil
}

// DeleteSession removes a session and its sets/reps. Returns true when a row
// was deleted.
func (db *DB) DeleteSession(ctx context.Context, sessionID uuid.UUID, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
