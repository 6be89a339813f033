package imu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/repvelocity/internal/ingest"
	"github.com/meltforce/repvelocity/internal/models"
	"github.com/meltforce/repvelocity/internal/storage"
)

// Provider processes IMU capture payloads from training devices.
type Provider struct {
	db  *storage.DB
	log *slog.Logger
}

// NewProvider creates a new IMU ingest provider.
func NewProvider(db *storage.DB, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest decodes a capture payload and stores its sessions. Duplicate
// sessions (same ID) are skipped along with their sets and reps.
func (p *Provider) Ingest(ctx context.Context, raw json.RawMessage, userID int) (*ingest.Result, error) {
	result := &ingest.Result{}

	sessions, err := DecodeSessions(raw)
	if err != nil {
		return result, err
	}

	for i := range sessions {
		if err := p.ingestSession(ctx, &sessions[i], userID, result); err != nil {
			return result, fmt.Errorf("ingesting session %s: %w", sessions[i].ID, err)
		}
	}

	if result.SessionsSkipped > 0 {
		result.Message = fmt.Sprintf(
			"%d session(s) already stored and skipped.", result.SessionsSkipped)
	}
	return result, nil
}

// DecodeSessions parses a raw payload into sessions, normalizing all capture
// formats. Legacy flat-rep payloads become a single session with one set.
func DecodeSessions(raw json.RawMessage) ([]models.Session, error) {
	switch DetectPayloadShape(raw) {
	case ShapeBatch:
		var batch struct {
			Sessions []models.Session `json:"sessions"`
		}
		if err := json.Unmarshal(raw, &batch); err != nil {
			return nil, fmt.Errorf("parsing session batch: %w", err)
		}
		for i := range batch.Sessions {
			sessionRaw, _ := json.Marshal(&batch.Sessions[i])
			batch.Sessions[i].RawJSON = sessionRaw
		}
		return batch.Sessions, nil

	case ShapeFlatReps:
		var flat struct {
			models.Session
			Reps []models.Rep `json:"reps"`
		}
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, fmt.Errorf("parsing flat rep payload: %w", err)
		}
		s := flat.Session
		s.Sets = []models.Set{{SetNumber: 1, Reps: flat.Reps}}
		s.RawJSON = raw
		return []models.Session{s}, nil

	default:
		var s models.Session
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parsing session: %w", err)
		}
		s.RawJSON = raw
		return []models.Session{s}, nil
	}
}

func (p *Provider) ingestSession(ctx context.Context, s *models.Session, userID int, result *ingest.Result) error {
	result.SessionsReceived++

	if s.ID == uuid.Nil {
		// Legacy firmware never assigned IDs. Generated IDs mean no
		// duplicate detection for these payloads.
		s.ID = uuid.New()
		p.log.Debug("assigned session id", "id", s.ID, "exercise", s.Exercise)
	}

	startTime := time.Now().UTC()
	if s.StartTime != nil {
		startTime = *s.StartTime
	}

	row := models.SessionRow{
		ID:          s.ID,
		UserID:      userID,
		Exercise:    s.Exercise,
		Equipment:   s.Equipment,
		WeightKg:    s.WeightKg,
		StartTime:   startTime,
		DurationSec: s.DurationSec,
		Calories:    s.Calories,
		PlannedSets: s.PlannedSets,
		PlannedReps: s.PlannedReps,
		RawJSON:     s.RawJSON,
	}

	inserted, err := p.db.InsertSession(ctx, row)
	if err != nil {
		return err
	}
	if !inserted {
		result.SessionsSkipped++
		return nil
	}
	result.SessionsInserted++

	setRows, repRows, sampleCount, err := ConvertSets(s, userID)
	if err != nil {
		return err
	}
	result.SamplesReceived += sampleCount

	if len(setRows) > 0 {
		n, err := p.db.InsertSets(ctx, setRows)
		if err != nil {
			return err
		}
		result.SetsInserted += n
	}
	if len(repRows) > 0 {
		n, err := p.db.InsertReps(ctx, repRows)
		if err != nil {
			return err
		}
		result.RepsInserted += n
	}
	return nil
}

// ConvertSets flattens a session's sets and reps into row types. Returns the
// total number of raw samples seen across all reps.
func ConvertSets(s *models.Session, userID int) ([]models.SetRow, []models.RepRow, int64, error) {
	var setRows []models.SetRow
	var repRows []models.RepRow
	var samples int64

	for _, set := range s.Sets {
		setRows = append(setRows, models.SetRow{
			SessionID:   s.ID,
			UserID:      userID,
			SetNumber:   set.SetNumber,
			PlannedReps: set.PlannedReps,
			Skipped:     set.Skipped,
		})

		for _, rep := range set.Reps {
			samples += int64(len(rep.Samples))

			var samplesJSON []byte
			if len(rep.Samples) > 0 {
				var err error
				samplesJSON, err = json.Marshal(rep.Samples)
				if err != nil {
					return nil, nil, samples, fmt.Errorf("encoding samples for rep %d: %w", rep.RepNumber, err)
				}
			}

			repRows = append(repRows, models.RepRow{
				SessionID:       s.ID,
				UserID:          userID,
				SetNumber:       set.SetNumber,
				RepNumber:       rep.RepNumber,
				TimeSec:         rep.TimeSec,
				DurationMs:      rep.DurationMs,
				PeakVelocity:    rep.PeakVelocity,
				SmoothnessScore: rep.SmoothnessScore,
				Classification:  rep.Classification,
				ROM:             rep.ROM,
				ROMUnit:         rep.ROMUnit,
				ChartData:       rep.ChartData,
				SamplesJSON:     samplesJSON,
			})
		}
	}
	return setRows, repRows, samples, nil
}
