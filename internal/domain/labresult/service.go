package labresult

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sebfischer83/ArquivoMate2-sub001/internal/platform/db"
)

// OwnerResolver resolves the owning user of a document.
type OwnerResolver interface {
	GetOwner(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error)
}

// Aggregator folds stored results into per-owner derived views.
type Aggregator interface {
	AddOrUpdate(ctx context.Context, result *LabResult) error
	RebuildForOwner(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo        Repository
	owners      OwnerResolver
	agg         Aggregator
	transformer *Transformer
	runTx       db.TxRunner
	logger      zerolog.Logger
}

func NewService(repo Repository, owners OwnerResolver, agg Aggregator, transformer *Transformer, runTx db.TxRunner, logger zerolog.Logger) *Service {
	if transformer == nil {
		transformer = NewTransformer(nil)
	}
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{repo: repo, owners: owners, agg: agg, transformer: transformer, runTx: runTx, logger: logger}
}

// ProcessReport transforms a raw extracted report into lab results, stores
// them and folds each into the owner's pivot view. Storage and fold commit
// together: a failure anywhere leaves nothing behind.
func (s *Service) ProcessReport(ctx context.Context, documentID uuid.UUID, report *RawReport) ([]*LabResult, error) {
	if documentID == uuid.Nil {
		return nil, fmt.Errorf("document id is required")
	}
	results, err := s.transformer.Transform(documentID, report)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		for _, lr := range results {
			if err := s.repo.Create(ctx, lr); err != nil {
				return fmt.Errorf("store lab result for %s: %w", lr.Date.Format(resultDateLayout), err)
			}
			if s.agg == nil {
				continue
			}
			if err := s.agg.AddOrUpdate(ctx, lr); err != nil {
				return fmt.Errorf("fold lab result %s: %w", lr.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("document_id", documentID.String()).
		Int("results", len(results)).
		Msg("lab report processed")
	return results, nil
}

func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListResultsByDocument(ctx context.Context, documentID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	return s.repo.ListByDocument(ctx, documentID, limit, offset)
}

// DeleteResult removes a stored result and rebuilds the owner's derived view
// in the same transaction, since an incremental fold cannot subtract values.
func (s *Service) DeleteResult(ctx context.Context, id uuid.UUID) error {
	lr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	owner, err := s.owners.GetOwner(ctx, lr.DocumentID)
	if err != nil {
		return fmt.Errorf("resolve owner of document %s: %w", lr.DocumentID, err)
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if s.agg == nil {
			return nil
		}
		return s.agg.RebuildForOwner(ctx, owner)
	})
}
