package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/repvelocity/internal/kinematics"
)

// fatigueTrendSessionCap bounds how many full sessions one trend call loads.
const fatigueTrendSessionCap = 50

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List lifting sessions in a time range. Returns session summaries: exercise, equipment, weight, duration, and planned volume."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench press')")),
)

var toolGetSessionAnalysis = mcp.NewTool("get_session_analysis",
	mcp.WithDescription("Run the full kinematic analysis for one session: per-rep velocity metrics, consistency score, fatigue score, and effective-rep classification per set and for the whole session."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("threshold", mcp.Description("Velocity-loss threshold percentage for effective-rep classification (0-100). Defaults to server configuration.")),
)

var toolGetFatigueTrend = mcp.NewTool("get_fatigue_trend",
	mcp.WithDescription("Fatigue and consistency scores per session over a time range, ordered by date. Use to spot accumulating fatigue across a training block."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match)")),
)

var toolGetVelocityProfile = mcp.NewTool("get_velocity_profile",
	mcp.WithDescription("Reconstructed per-sample velocity profiles for every rep in one set, with peak/mean velocity and plausibility flags."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
	mcp.WithNumber("set", mcp.Required(), mcp.Description("Set number within the session")),
)

var toolGetCaptureStats = mcp.NewTool("get_capture_stats",
	mcp.WithDescription("Aggregate statistics over all stored data: session/set/rep counts, skipped sets, date range, and per-exercise totals."),
)

// --- Tool handlers ---

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	exerciseFilter := req.GetString("exercise", "")
	uid := UserIDFromContext(ctx)

	rows, err := h.ds.QuerySessions(ctx, start, end, uid, exerciseFilter)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id: " + err.Error()), nil
	}

	cfg := h.kin
	if pct := req.GetFloat("threshold", 0); pct != 0 {
		if pct < 0 || pct > 100 {
			return mcp.NewToolResultError("threshold must be a percentage in (0, 100]"), nil
		}
		cfg.VelocityLossThresholdPct = pct
	}

	uid := UserIDFromContext(ctx)
	session, err := h.ds.GetSession(ctx, sessionID, uid)
	if err != nil {
		h.log.Error("mcp get_session_analysis", "error", err)
		return mcp.NewToolResultError("session not found: " + err.Error()), nil
	}

	analysis := kinematics.AnalyzeSession(*session, cfg)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"session_id": session.ID,
		"exercise":   session.Exercise,
		"analysis":   analysis,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// fatigueTrendPoint is one session's scores in a trend response.
type fatigueTrendPoint struct {
	SessionID        uuid.UUID `json:"session_id"`
	StartTime        time.Time `json:"start_time"`
	Exercise         string    `json:"exercise"`
	FatigueScore     float64   `json:"fatigue_score"`
	FatigueLevel     string    `json:"fatigue_level"`
	ConsistencyScore float64   `json:"consistency_score"`
	EffectiveReps    int       `json:"effective_reps"`
	TotalReps        int       `json:"total_reps"`
}

func (h *handlers) getFatigueTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	exerciseFilter := req.GetString("exercise", "")
	uid := UserIDFromContext(ctx)

	rows, err := h.ds.QuerySessions(ctx, start, end, uid, exerciseFilter)
	if err != nil {
		h.log.Error("mcp get_fatigue_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(rows) > fatigueTrendSessionCap {
		rows = rows[:fatigueTrendSessionCap]
	}

	points := make([]fatigueTrendPoint, 0, len(rows))
	for _, row := range rows {
		session, err := h.ds.GetSession(ctx, row.ID, uid)
		if err != nil {
			h.log.Warn("mcp get_fatigue_trend: skipping session", "id", row.ID, "error", err)
			continue
		}
		analysis := kinematics.AnalyzeSession(*session, h.kin)
		points = append(points, fatigueTrendPoint{
			SessionID:        row.ID,
			StartTime:        row.StartTime,
			Exercise:         row.Exercise,
			FatigueScore:     analysis.Fatigue.Score,
			FatigueLevel:     analysis.Fatigue.Level,
			ConsistencyScore: analysis.Consistency.Score,
			EffectiveReps:    analysis.Classification.EffectiveCount,
			TotalReps:        analysis.Classification.TotalCount,
		})
	}

	// QuerySessions returns newest first; trends read better oldest first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVelocityProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id: " + err.Error()), nil
	}
	setNumber, err := req.RequireInt("set")
	if err != nil {
		return mcp.NewToolResultError("set parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	session, err := h.ds.GetSession(ctx, sessionID, uid)
	if err != nil {
		h.log.Error("mcp get_velocity_profile", "error", err)
		return mcp.NewToolResultError("session not found: " + err.Error()), nil
	}

	for _, set := range session.Sets {
		if set.SetNumber != setNumber {
			continue
		}
		analysis := kinematics.AnalyzeSet(set, h.kin)
		result, err := mcp.NewToolResultJSON(analysis)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}
	return mcp.NewToolResultError("set not found in session"), nil
}

func (h *handlers) getCaptureStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_capture_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
