package pivot

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no pivot table exists for an owner.
var ErrNotFound = errors.New("pivot table not found")

// ErrVersionConflict is returned when a concurrent writer advanced the table
// between this writer's read and its save.
var ErrVersionConflict = errors.New("pivot table version conflict")

type Repository interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*PivotTable, error)
	// Save inserts the table when Version is zero, otherwise performs a
	// compare-and-swap on the version column and returns
	// ErrVersionConflict when the stored version moved on.
	Save(ctx context.Context, t *PivotTable) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
