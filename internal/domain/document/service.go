package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sebfischer83/ArquivoMate2-sub001/internal/platform/db"
)

// Aggregator is notified when a document's contribution to derived per-owner
// views must be recomputed.
type Aggregator interface {
	RebuildForOwner(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo   Repository
	agg    Aggregator
	runTx  db.TxRunner
	logger zerolog.Logger
}

func NewService(repo Repository, agg Aggregator, runTx db.TxRunner, logger zerolog.Logger) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{repo: repo, agg: agg, runTx: runTx, logger: logger}
}

func (s *Service) CreateDocument(ctx context.Context, d *Document) error {
	if d.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDocumentsByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// DeleteDocument soft-deletes the document and rebuilds the owner's derived
// views in the same transaction, so readers never see a deleted document's
// values linger.
func (s *Service) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return err
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}
		if s.agg == nil {
			return nil
		}
		if err := s.agg.RebuildForOwner(ctx, owner); err != nil {
			return fmt.Errorf("rebuild views for owner %s: %w", owner, err)
		}
		return nil
	})
}
