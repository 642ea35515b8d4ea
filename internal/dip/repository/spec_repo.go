package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// SpecRepository owns the spec_suggestions table. It is the only writer to
// it and knows nothing about the other suggestion stores.
type SpecRepository struct {
	pool *pgxpool.Pool
}

func NewSpecRepository(pool *pgxpool.Pool) *SpecRepository {
	return &SpecRepository{pool: pool}
}

// UpsertBatch persists one kind-batch as a single transaction. Re-invoking
// with the same rows updates in place: the dedup key is
// (doc_id, hint_type, value, unit, approved_by).
func (r *SpecRepository) UpsertBatch(ctx context.Context, docID string, rows []domain.SpecRow) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("pgx pool is nil")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin spec upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO spec_suggestions (id, doc_id, hint_type, value, unit, page, confidence, context, approved_by, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (doc_id, hint_type, value, unit, approved_by) DO UPDATE SET
	page = EXCLUDED.page,
	confidence = EXCLUDED.confidence,
	context = EXCLUDED.context,
	approved_at = EXCLUDED.approved_at;
`
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		if _, err := tx.Exec(ctx, q,
			row.ID, docID, row.HintType, row.Value, row.Unit,
			nullablePage(row.Page), row.Confidence, row.Context,
			row.ApprovedBy, row.ApprovedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert spec suggestion: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit spec upsert: %w", err)
	}
	return len(rows), nil
}

// DeleteByApproval removes only this approver's rows for the document.
func (r *SpecRepository) DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error) {
	const q = `DELETE FROM spec_suggestions WHERE doc_id = $1 AND approved_by = $2;`
	tag, err := r.pool.Exec(ctx, q, docID, approvedBy)
	if err != nil {
		return 0, fmt.Errorf("delete spec suggestions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeStale drops rows for one approver older than the cutoff, across all
// documents. Used by the nightly trial-approval sweep.
func (r *SpecRepository) PurgeStale(ctx context.Context, approvedBy string, olderThan time.Duration) (int64, error) {
	const q = `DELETE FROM spec_suggestions WHERE approved_by = $1 AND approved_at < $2;`
	tag, err := r.pool.Exec(ctx, q, approvedBy, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge stale spec suggestions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nullablePage maps the zero "unknown page" to NULL.
func nullablePage(p int) any {
	if p <= 0 {
		return nil
	}
	return p
}
