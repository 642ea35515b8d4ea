package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/repository"
)

func setupPlaybookRepo(t *testing.T) *repository.PlaybookRepository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return repository.NewPlaybookRepository(client)
}

func playbookRows(approvedBy string, approvedAt time.Time, descriptions ...string) []domain.PlaybookRow {
	rows := make([]domain.PlaybookRow, 0, len(descriptions))
	for _, d := range descriptions {
		rows = append(rows, domain.PlaybookRow{
			DocID:       "doc-1",
			TestName:    "Safety Test",
			Description: d,
			Confidence:  0.8,
			Provenance:  domain.Provenance{ApprovedBy: approvedBy, ApprovedAt: approvedAt},
		})
	}
	return rows
}

func TestPlaybookRepository_UpsertBatch(t *testing.T) {
	repo := setupPlaybookRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("re-approving identical content overwrites in place", func(t *testing.T) {
		rows := playbookRows("reviewer", now, "Disconnect power first", "Close the inlet valve")

		n, err := repo.UpsertBatch(ctx, "doc-1", rows)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.UpsertBatch(ctx, "doc-1", rows)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		stored, err := repo.ListByApproval(ctx, "doc-1", "reviewer")
		require.NoError(t, err)
		assert.Len(t, stored, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		n, err := repo.UpsertBatch(ctx, "doc-1", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestPlaybookRepository_DeleteByApproval(t *testing.T) {
	repo := setupPlaybookRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.UpsertBatch(ctx, "doc-1", playbookRows("alice", now, "Disconnect power first"))
	require.NoError(t, err)
	_, err = repo.UpsertBatch(ctx, "doc-1", playbookRows("bob", now, "Close the inlet valve", "Drain the tank"))
	require.NoError(t, err)

	n, err := repo.DeleteByApproval(ctx, "doc-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// alice's approval for the same document survives
	stored, err := repo.ListByApproval(ctx, "doc-1", "alice")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	n, err = repo.DeleteByApproval(ctx, "doc-1", "bob")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaybookRepository_PurgeStale(t *testing.T) {
	repo := setupPlaybookRepo(t)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-48 * time.Hour)
	fresh := time.Now().UTC()

	_, err := repo.UpsertBatch(ctx, "doc-1", playbookRows("dry-run", stale, "Old trial hint"))
	require.NoError(t, err)
	_, err = repo.UpsertBatch(ctx, "doc-2", playbookRows("dry-run", fresh, "Recent trial hint"))
	require.NoError(t, err)
	_, err = repo.UpsertBatch(ctx, "doc-1", playbookRows("reviewer", stale, "Old but real approval"))
	require.NoError(t, err)

	n, err := repo.PurgeStale(ctx, "dry-run", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	remaining, err := repo.ListByApproval(ctx, "doc-2", "dry-run")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	kept, err := repo.ListByApproval(ctx, "doc-1", "reviewer")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}
