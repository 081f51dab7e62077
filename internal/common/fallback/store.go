package fallback

import (
	"context"
	"fmt"
)

// Store is the durable best-effort key/value mirror used when the remote
// tiers are unreachable. Writes may be lost if the underlying medium is
// unavailable; callers must treat every operation as best-effort and never
// depend on it for correctness.
type Store interface {
	// Get returns the stored value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// AppendBounded prepends value to the list at key, evicting the oldest
	// entries so the list never exceeds capacity (drop-oldest ring buffer).
	AppendBounded(ctx context.Context, key string, value []byte, capacity int) error

	// List returns up to limit entries from the list at key, newest first.
	// limit <= 0 returns the whole list.
	List(ctx context.Context, key string, limit int) ([][]byte, error)
}

// ActivityBufferCapacity bounds the per-wallet local activity ring buffer.
const ActivityBufferCapacity = 100

// ProfileKey is the mirror key for a wallet's profile.
func ProfileKey(wallet string) string {
	return fmt.Sprintf("profile:%s", wallet)
}

// ActivityKey is the mirror key for a wallet's buffered activity events.
func ActivityKey(wallet string) string {
	return fmt.Sprintf("activity:%s", wallet)
}
