package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/repvelocity/internal/kinematics"
	"github.com/meltforce/repvelocity/internal/models"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	result, err := s.imu.Ingest(r.Context(), body, 1)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		// A result with no sessions seen means the payload never parsed.
		status := http.StatusInternalServerError
		if result != nil && result.SessionsReceived == 0 {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	exerciseFilter := r.URL.Query().Get("exercise")
	rows, err := s.db.QuerySessions(r.Context(), start, end, 1, exerciseFilter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionAnalysis(w http.ResponseWriter, r *http.Request) {
	cfg := s.kin
	if t := r.URL.Query().Get("threshold"); t != "" {
		pct, err := strconv.ParseFloat(t, 64)
		if err != nil || pct <= 0 || pct > 100 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be a percentage in (0, 100]"})
			return
		}
		cfg.VelocityLossThresholdPct = pct
	}

	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	analysis := kinematics.AnalyzeSession(*session, cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"exercise":   session.Exercise,
		"analysis":   analysis,
	})
}

func (s *Server) handleSetVelocity(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	setNumber, err := strconv.Atoi(chi.URLParam(r, "set"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set number"})
		return
	}

	for _, set := range session.Sets {
		if set.SetNumber != setNumber {
			continue
		}
		analysis := kinematics.AnalyzeSet(set, s.kin)
		writeJSON(w, http.StatusOK, analysis)
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "set not found"})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	deleted, err := s.db.DeleteSession(r.Context(), sessionID, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	s.log.Info("session deleted", "session_id", sessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// sessionFromRequest parses the {id} route param and loads the session. On
// failure it writes the error response and returns ok=false.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}

	session, err := s.db.GetSession(r.Context(), sessionID, 1)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return session, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
