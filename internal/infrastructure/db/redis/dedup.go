package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides webhook delivery idempotency checks backed by Redis.
// Key format: webhook:<external_id>:<event_id>:<status>
//
// This is only a fast path. Reconciliation itself is idempotent, so a missed
// mark (redis down, TTL elapsed) is harmless.
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact webhook delivery was already
// processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, externalID, eventID string, status domain.PaymentStatus) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(externalID, eventID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this delivery has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, externalID, eventID string, status domain.PaymentStatus) error {
	return d.client.Set(ctx, d.key(externalID, eventID, status), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(externalID, eventID string, status domain.PaymentStatus) string {
	return fmt.Sprintf("webhook:%s:%s:%s", externalID, eventID, status)
}
