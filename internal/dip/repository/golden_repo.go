package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// GoldenRepository owns the golden_tests table.
type GoldenRepository struct {
	db *sql.DB
}

func NewGoldenRepository(db *sql.DB) *GoldenRepository {
	return &GoldenRepository{db: db}
}

// UpsertBatch persists one golden-test batch in a single transaction.
// Dedup key: (doc_id, query, approved_by) — re-approving the same query
// under the same reviewer updates the row instead of duplicating it.
func (r *GoldenRepository) UpsertBatch(ctx context.Context, docID string, rows []domain.GoldenRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin golden upsert: %w", err)
	}
	defer tx.Rollback()

	const q = `
INSERT INTO golden_tests (id, doc_id, query, expected, page, confidence, context, approved_by, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (doc_id, query, approved_by) DO UPDATE SET
	expected = EXCLUDED.expected,
	page = EXCLUDED.page,
	confidence = EXCLUDED.confidence,
	context = EXCLUDED.context,
	approved_at = EXCLUDED.approved_at;
`
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}

		var page sql.NullInt64
		if row.Page > 0 {
			page = sql.NullInt64{Int64: int64(row.Page), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, q,
			row.ID, docID, row.Query, row.Expected,
			page, row.Confidence, row.Context,
			row.ApprovedBy, row.ApprovedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert golden test: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit golden upsert: %w", err)
	}
	return len(rows), nil
}

// DeleteByApproval removes only this approver's rows for the document.
func (r *GoldenRepository) DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error) {
	const q = `DELETE FROM golden_tests WHERE doc_id = $1 AND approved_by = $2;`
	result, err := r.db.ExecContext(ctx, q, docID, approvedBy)
	if err != nil {
		return 0, fmt.Errorf("delete golden tests: %w", err)
	}
	return result.RowsAffected()
}

// PurgeStale drops one approver's rows older than the cutoff.
func (r *GoldenRepository) PurgeStale(ctx context.Context, approvedBy string, olderThan time.Duration) (int64, error) {
	const q = `DELETE FROM golden_tests WHERE approved_by = $1 AND approved_at < $2;`
	result, err := r.db.ExecContext(ctx, q, approvedBy, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge stale golden tests: %w", err)
	}
	return result.RowsAffected()
}
