package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/repvelocity/internal/kinematics"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, kin kinematics.Config, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepVelocity", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepVelocity training data server. Query lifting sessions, "+
			"run velocity and fatigue analysis on IMU captures, and inspect stored data. "+
			"All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, kin: kin, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSessionAnalysis, Handler: h.getSessionAnalysis},
		server.ServerTool{Tool: toolGetFatigueTrend, Handler: h.getFatigueTrend},
		server.ServerTool{Tool: toolGetVelocityProfile, Handler: h.getVelocityProfile},
		server.ServerTool{Tool: toolGetCaptureStats, Handler: h.getCaptureStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resCaptureStats, Handler: h.captureStats},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	kin kinematics.Config
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"repvelocity://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Lifting sessions captured in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resCaptureStats = mcp.NewResource(
	"repvelocity://capture_stats",
	"Capture Stats",
	mcp.WithResourceDescription("Aggregate statistics over all stored sessions, sets, and reps"),
	mcp.WithMIMEType("application/json"),
)
