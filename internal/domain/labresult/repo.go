package labresult

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lab result does not exist.
var ErrNotFound = errors.New("lab result not found")

type Repository interface {
	Create(ctx context.Context, lr *LabResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID, limit, offset int) ([]*LabResult, int, error)
	// ListByDocuments loads every result for the given documents, used to
	// rebuild aggregates from scratch.
	ListByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]*LabResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
