package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentStore answers the single read the pipeline needs: does this
// document exist. It never writes.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

func (s *DocumentStore) DocumentExists(ctx context.Context, docID string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM documents WHERE id = $1);`

	var exists bool
	if err := s.pool.QueryRow(ctx, q, docID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check document exists: %w", err)
	}
	return exists, nil
}
