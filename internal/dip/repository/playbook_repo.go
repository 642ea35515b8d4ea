package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// playbookKeyPrefix scopes every hash to one (document, approver) pair:
// dip:playbook:{doc_id}:{approved_by}
const playbookKeyPrefix = "dip:playbook:"

// PlaybookRepository owns the Redis store for approved playbook hints.
// Each hint is a hash field keyed by a digest of its description, so
// re-approving identical content overwrites in place.
type PlaybookRepository struct {
	client *redis.Client
}

func NewPlaybookRepository(client *redis.Client) *PlaybookRepository {
	return &PlaybookRepository{client: client}
}

func (r *PlaybookRepository) key(docID, approvedBy string) string {
	return playbookKeyPrefix + docID + ":" + approvedBy
}

func hintDigest(description string) string {
	sum := sha1.Sum([]byte(description))
	return hex.EncodeToString(sum[:])
}

// UpsertBatch writes one kind-batch through a pipeline. All rows in a batch
// carry the same provenance, so they land under one key.
func (r *PlaybookRepository) UpsertBatch(ctx context.Context, docID string, rows []domain.PlaybookRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	approvedBy := rows[0].ApprovedBy
	key := r.key(docID, approvedBy)

	pipe := r.client.Pipeline()
	for _, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		data, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("marshal playbook hint: %w", err)
		}
		pipe.HSet(ctx, key, hintDigest(row.Description), data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("upsert playbook hints: %w", err)
	}
	return len(rows), nil
}

// DeleteByApproval removes this approver's hash for the document, leaving
// other approvers' keys for the same document untouched.
func (r *PlaybookRepository) DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error) {
	key := r.key(docID, approvedBy)

	count, err := r.client.HLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("count playbook hints: %w", err)
	}
	if count == 0 {
		return 0, nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return 0, fmt.Errorf("delete playbook hints: %w", err)
	}
	return count, nil
}

// ListByApproval returns the stored rows for one (document, approver) pair.
func (r *PlaybookRepository) ListByApproval(ctx context.Context, docID, approvedBy string) ([]domain.PlaybookRow, error) {
	fields, err := r.client.HGetAll(ctx, r.key(docID, approvedBy)).Result()
	if err != nil {
		return nil, fmt.Errorf("list playbook hints: %w", err)
	}

	out := make([]domain.PlaybookRow, 0, len(fields))
	for _, raw := range fields {
		var row domain.PlaybookRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// PurgeStale walks this approver's keys and drops rows older than the
// cutoff. Empty hashes are removed entirely.
func (r *PlaybookRepository) PurgeStale(ctx context.Context, approvedBy string, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var purged int64

	iter := r.client.Scan(ctx, 0, playbookKeyPrefix+"*:"+approvedBy, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err != nil {
			return purged, fmt.Errorf("scan playbook hints: %w", err)
		}

		stale := make([]string, 0, len(fields))
		for field, raw := range fields {
			var row domain.PlaybookRow
			if err := json.Unmarshal([]byte(raw), &row); err != nil {
				stale = append(stale, field)
				continue
			}
			if row.ApprovedAt.Before(cutoff) {
				stale = append(stale, field)
			}
		}
		if len(stale) == 0 {
			continue
		}

		n, err := r.client.HDel(ctx, key, stale...).Result()
		if err != nil {
			return purged, fmt.Errorf("purge playbook hints: %w", err)
		}
		purged += n
	}
	if err := iter.Err(); err != nil {
		return purged, fmt.Errorf("scan playbook keys: %w", err)
	}
	return purged, nil
}
