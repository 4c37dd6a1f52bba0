package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a document does not exist or is deleted.
var ErrNotFound = errors.New("document not found")

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// GetOwner resolves the owning user of a non-deleted document.
	// Returns ErrNotFound when the document is missing or deleted.
	GetOwner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	// ListActiveIDsByOwner returns the ids of all non-deleted documents
	// owned by the given user.
	ListActiveIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Document, int, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
