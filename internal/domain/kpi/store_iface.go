package kpi

import (
	"context"

	"kpiflow/internal/domain/hierarchy"
)

type StoreAPI interface {
	Get(ctx context.Context, kpiID string) (Record, error)
	Create(ctx context.Context, record Record) (string, error)
	// Save persists the record guarded by its version and bumps the version
	// on success. A stale version yields ErrVersionConflict.
	Save(ctx context.Context, record Record) error
	ListPendingForManager(ctx context.Context, managerID string) ([]Record, error)
	ListSubordinateQueue(ctx context.Context, managerID string) ([]Record, error)
	StatusCounts(ctx context.Context, employeeID string) (map[string]int, error)
}

type HistoryAPI interface {
	Append(ctx context.Context, entry HistoryEntry) error
	ListForKPI(ctx context.Context, kpiID string) ([]HistoryEntry, error)
}

// ChainAPI and UserAPI are the collaborator contracts the workflow consumes.
// In production both are served by the hierarchy package.
type ChainAPI interface {
	OrderedChain(ctx context.Context, employeeID string) ([]hierarchy.ChainEntry, error)
}

type UserAPI interface {
	UserExists(ctx context.Context, userID string) (bool, error)
	IsOverride(ctx context.Context, userID string) (bool, error)
}
