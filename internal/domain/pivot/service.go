package pivot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sebfischer83/ArquivoMate2-sub001/internal/domain/document"
	"github.com/sebfischer83/ArquivoMate2-sub001/internal/domain/labresult"
	"github.com/sebfischer83/ArquivoMate2-sub001/internal/platform/db"
)

// DocumentSource resolves documents to owners and enumerates an owner's
// active documents. document.Repository satisfies it.
type DocumentSource interface {
	GetOwner(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error)
	ListActiveIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

// ResultSource loads stored lab results for a set of documents.
// labresult.Repository satisfies it.
type ResultSource interface {
	ListByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]*labresult.LabResult, error)
}

// Service owns all mutation of pivot tables. Mutations for one owner are
// serialized through a keyed lock; the repository's version check backstops
// writers outside this process.
type Service struct {
	tables  Repository
	docs    DocumentSource
	results ResultSource
	params  labresult.ParameterNormalizer
	locks   *ownerLocks
	runTx   db.TxRunner
	logger  zerolog.Logger
}

func NewService(tables Repository, docs DocumentSource, results ResultSource, params labresult.ParameterNormalizer, runTx db.TxRunner, logger zerolog.Logger) *Service {
	if params == nil {
		params = labresult.DefaultParameterNormalizer{}
	}
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{
		tables:  tables,
		docs:    docs,
		results: results,
		params:  params,
		locks:   newOwnerLocks(),
		runTx:   runTx,
		logger:  logger,
	}
}

// AddOrUpdate folds one lab result into its owner's pivot table, creating
// the table on first contribution. When the document's owner cannot be
// resolved the call is a no-op: pivot data is only ever keyed by valid
// current ownership. The write lands on whatever transaction the context
// carries, so it commits together with the result itself.
func (s *Service) AddOrUpdate(ctx context.Context, result *labresult.LabResult) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}

	owner, err := s.docs.GetOwner(ctx, result.DocumentID)
	if errors.Is(err, document.ErrNotFound) {
		s.logger.Warn().
			Str("document_id", result.DocumentID.String()).
			Str("lab_result_id", result.ID.String()).
			Msg("owner unresolved, lab result not folded into pivot")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve owner of document %s: %w", result.DocumentID, err)
	}

	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	table, err := s.tables.GetByOwner(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		table = NewPivotTable(owner)
	} else if err != nil {
		return err
	}

	table.Apply(result, s.params)
	return s.tables.Save(ctx, table)
}

// RebuildForOwner recomputes the owner's pivot table from every stored
// result of every active document. The fold is order independent, so two
// rebuilds over the same data produce identical tables. An owner with no
// active documents loses the table entirely.
func (s *Service) RebuildForOwner(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return fmt.Errorf("owner id is required")
	}

	lock := s.locks.get(ownerID)
	lock.Lock()
	defer lock.Unlock()

	return s.runTx(ctx, func(ctx context.Context) error {
		docIDs, err := s.docs.ListActiveIDsByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("list documents of owner %s: %w", ownerID, err)
		}
		if len(docIDs) == 0 {
			if err := s.tables.Delete(ctx, ownerID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			s.logger.Info().Str("owner_id", ownerID.String()).Msg("pivot table removed, owner has no active documents")
			return nil
		}

		results, err := s.results.ListByDocuments(ctx, docIDs)
		if err != nil {
			return fmt.Errorf("load results of owner %s: %w", ownerID, err)
		}

		fresh := NewPivotTable(ownerID)
		for _, lr := range results {
			fresh.Apply(lr, s.params)
		}

		existing, err := s.tables.GetByOwner(ctx, ownerID)
		switch {
		case errors.Is(err, ErrNotFound):
			// first table for this owner
		case err != nil:
			return err
		default:
			fresh.Version = existing.Version
		}

		if err := s.tables.Save(ctx, fresh); err != nil {
			return err
		}
		s.logger.Info().
			Str("owner_id", ownerID.String()).
			Int("documents", len(docIDs)).
			Int("results", len(results)).
			Int("rows", len(fresh.Rows)).
			Msg("pivot table rebuilt")
		return nil
	})
}

// PivotByOwner returns the owner's full table.
func (s *Service) PivotByOwner(ctx context.Context, ownerID uuid.UUID) (*PivotTable, error) {
	return s.tables.GetByOwner(ctx, ownerID)
}

// PivotByDocument returns the owner's table restricted to the dates the
// given document contributed, with rows pruned to those still carrying a
// value in the remaining columns.
func (s *Service) PivotByDocument(ctx context.Context, documentID uuid.UUID) (*PivotTable, error) {
	owner, err := s.docs.GetOwner(ctx, documentID)
	if errors.Is(err, document.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	results, err := s.results.ListByDocuments(ctx, []uuid.UUID{documentID})
	if err != nil {
		return nil, err
	}

	table, err := s.tables.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(results))
	for _, lr := range results {
		dates = append(dates, lr.Date)
	}
	return table.FilterByDates(dates), nil
}
