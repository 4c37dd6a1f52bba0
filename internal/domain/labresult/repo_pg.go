package labresult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sebfischer83/ArquivoMate2-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const resultCols = `id, document_id, patient, lab_name, result_date, points, created_at, updated_at`

func scanResult(row pgx.Row) (*LabResult, error) {
	var lr LabResult
	var points []byte
	err := row.Scan(&lr.ID, &lr.DocumentID, &lr.Patient, &lr.LabName, &lr.Date,
		&points, &lr.CreatedAt, &lr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(points, &lr.Points); err != nil {
		return nil, fmt.Errorf("decode lab result points: %w", err)
	}
	return &lr, nil
}

func (r *repoPG) Create(ctx context.Context, lr *LabResult) error {
	if lr.ID == uuid.Nil {
		lr.ID = uuid.New()
	}
	points, err := json.Marshal(lr.Points)
	if err != nil {
		return fmt.Errorf("encode lab result points: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_result (id, document_id, patient, lab_name, result_date, points)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		lr.ID, lr.DocumentID, lr.Patient, lr.LabName, lr.Date, points)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return scanResult(r.conn(ctx).QueryRow(ctx,
		`SELECT `+resultCols+` FROM lab_result WHERE id = $1`, id))
}

func (r *repoPG) ListByDocument(ctx context.Context, documentID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_result WHERE document_id = $1`, documentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultCols+` FROM lab_result WHERE document_id = $1 ORDER BY result_date DESC LIMIT $2 OFFSET $3`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectResults(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]*LabResult, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultCols+` FROM lab_result WHERE document_id = ANY($1) ORDER BY result_date`, documentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResults(rows)
}

func collectResults(rows pgx.Rows) ([]*LabResult, error) {
	var items []*LabResult
	for rows.Next() {
		lr, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lr)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_result WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
