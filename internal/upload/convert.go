package upload

import (
	"encoding/json"
	"fmt"

	"github.com/meltforce/repvelocity/internal/models"
)

// CaptureSummary describes the contents of one capture file.
type CaptureSummary struct {
	Sessions int
	Sets     int
	Reps     int
	Samples  int64
}

// SummarizeCapture parses a capture file far enough to count its contents.
// It accepts the same payload shapes as the server: a single session, a
// batch export, or a legacy flat rep list. Used for dry-run reporting and to
// reject unparseable files before they hit the network.
func SummarizeCapture(data []byte) (*CaptureSummary, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing capture: %w", err)
	}

	summary := &CaptureSummary{}

	if raw, ok := probe["sessions"]; ok {
		var sessions []models.Session
		if err := json.Unmarshal(raw, &sessions); err != nil {
			return nil, fmt.Errorf("parsing session batch: %w", err)
		}
		for i := range sessions {
			summary.addSession(&sessions[i])
		}
		return summary, nil
	}

	if raw, ok := probe["reps"]; ok {
		if _, hasSets := probe["sets"]; !hasSets {
			var reps []models.Rep
			if err := json.Unmarshal(raw, &reps); err != nil {
				return nil, fmt.Errorf("parsing flat rep payload: %w", err)
			}
			summary.Sessions = 1
			summary.Sets = 1
			summary.Reps = len(reps)
			for _, rep := range reps {
				summary.Samples += int64(len(rep.Samples))
			}
			return summary, nil
		}
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	summary.addSession(&session)
	return summary, nil
}

func (s *CaptureSummary) addSession(session *models.Session) {
	s.Sessions++
	s.Sets += len(session.Sets)
	for _, set := range session.Sets {
		s.Reps += len(set.Reps)
		for _, rep := range set.Reps {
			s.Samples += int64(len(rep.Samples))
		}
	}
}
