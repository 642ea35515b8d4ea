package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// IntentRepository owns the intent_router table, the store behind the
// approval request's "entities" array.
type IntentRepository struct {
	pool *pgxpool.Pool
}

func NewIntentRepository(pool *pgxpool.Pool) *IntentRepository {
	return &IntentRepository{pool: pool}
}

// UpsertBatch persists one intent-route batch in a single transaction.
// Dedup key: (doc_id, trigger_phrase, approved_by).
func (r *IntentRepository) UpsertBatch(ctx context.Context, docID string, rows []domain.IntentRow) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("pgx pool is nil")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin intent upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO intent_router (id, doc_id, trigger_phrase, mapped_intent, page, confidence, context, approved_by, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (doc_id, trigger_phrase, approved_by) DO UPDATE SET
	mapped_intent = EXCLUDED.mapped_intent,
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
			row.ID, docID, row.TriggerPhrase, row.MappedIntent,
			nullablePage(row.Page), row.Confidence, row.Context,
			row.ApprovedBy, row.ApprovedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert intent route: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit intent upsert: %w", err)
	}
	return len(rows), nil
}

// DeleteByApproval removes only this approver's rows for the document.
func (r *IntentRepository) DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error) {
	const q = `DELETE FROM intent_router WHERE doc_id = $1 AND approved_by = $2;`
	tag, err := r.pool.Exec(ctx, q, docID, approvedBy)
	if err != nil {
		return 0, fmt.Errorf("delete intent routes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeStale drops one approver's rows older than the cutoff.
func (r *IntentRepository) PurgeStale(ctx context.Context, approvedBy string, olderThan time.Duration) (int64, error) {
	const q = `DELETE FROM intent_router WHERE approved_by = $1 AND approved_at < $2;`
	tag, err := r.pool.Exec(ctx, q, approvedBy, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge stale intent routes: %w", err)
	}
	return tag.RowsAffected(), nil
}
