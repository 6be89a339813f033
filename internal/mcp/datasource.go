package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/repvelocity/internal/models"
	"github.com/meltforce/repvelocity/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QuerySessions(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.SessionRow, error)
	GetSession(ctx context.Context, sessionID uuid.UUID, userID int) (*models.Session, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
