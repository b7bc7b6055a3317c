package repositories

import "context"

// KV is the key-value store backing chats and watch history.
//
// Values are JSON documents. Indexes are sorted sets of members keyed by a
// score, read back highest score first.
type KV interface {
	// Get returns the value stored at key, or nil with no error when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// IndexAdd inserts member into index with score, or updates its score.
	IndexAdd(ctx context.Context, index string, score float64, member string) error

	// IndexMembers lists the members of index, highest score first.
	IndexMembers(ctx context.Context, index string) ([]string, error)

	// IndexRemove removes member from index. Missing members are ignored.
	IndexRemove(ctx context.Context, index string, member string) error
}
