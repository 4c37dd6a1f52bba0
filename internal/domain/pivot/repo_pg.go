package pivot

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

func (r *repoPG) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*PivotTable, error) {
	var t PivotTable
	var columns, rows []byte
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT owner_id, columns, rows, version, updated_at
		FROM pivot_table WHERE owner_id = $1`, ownerID).
		Scan(&t.OwnerID, &columns, &rows, &t.Version, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(columns, &t.Columns); err != nil {
		return nil, fmt.Errorf("decode pivot columns: %w", err)
	}
	if err := json.Unmarshal(rows, &t.Rows); err != nil {
		return nil, fmt.Errorf("decode pivot rows: %w", err)
	}
	return &t, nil
}

func (r *repoPG) Save(ctx context.Context, t *PivotTable) error {
	columns, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("encode pivot columns: %w", err)
	}
	rows, err := json.Marshal(t.Rows)
	if err != nil {
		return fmt.Errorf("encode pivot rows: %w", err)
	}

	if t.Version == 0 {
		tag, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO pivot_table (owner_id, columns, rows, version)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (owner_id) DO NOTHING`,
			t.OwnerID, columns, rows)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		t.Version = 1
		return nil
	}

	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE pivot_table
		SET columns = $2, rows = $3, version = version + 1, updated_at = NOW()
		WHERE owner_id = $1 AND version = $4`,
		t.OwnerID, columns, rows, t.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	t.Version++
	return nil
}

func (r *repoPG) Delete(ctx context.Context, ownerID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM pivot_table WHERE owner_id = $1`, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
