package shared

import (
	"context"
	"time"
)

// RunGuardStore deduplicates scheduled job runs across processes.
// MarkProcessed returns true if the key was newly claimed, false if another
// process already claimed it within the TTL window.
type RunGuardStore interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
