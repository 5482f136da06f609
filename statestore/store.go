package statestore

import (
	"context"
	"strings"

	"github.com/c360/statekit/statekey"
)

// Store is the pluggable backend interface for entity state storage.
//
// Each store instance owns its backend configuration (bucket, connection).
// All implementations must be safe for concurrent use from multiple
// goroutines, and all operations are context-aware for cancellation and
// timeouts.
//
// Keys are statekey addressing keys; how they map onto the backend
// keyspace is implementation-specific.
type Store interface {
	// Put stores the instance under its own state key (last writer wins)
	// and returns the new revision. Fails when the instance has no state
	// key.
	Put(ctx context.Context, inst statekey.Instance) (uint64, error)

	// Get retrieves the instance stored under key. Returns
	// errors.ErrKeyNotFound when no instance exists.
	Get(ctx context.Context, key string) (statekey.Instance, error)

	// Update applies mutate to the current instance under key with
	// compare-and-swap semantics, retrying on revision conflicts. When no
	// instance exists yet, mutate receives a zero instance carrying only
	// the key. Returns the stored result.
	Update(ctx context.Context, key string, mutate func(statekey.Instance) (statekey.Instance, error)) (statekey.Instance, error)

	// Delete removes the instance under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// List returns the addressing keys of all instances of the
	// descriptor's kind, in lexicographic order.
	List(ctx context.Context, d statekey.Descriptor) ([]string, error)
}

// storeKey maps an addressing key onto the backend keyspace. NATS KV keys
// cannot contain ':', so the delimiter becomes '/'; '/' is outside the
// codec alphabet, which keeps the mapping reversible.
func storeKey(key string) string {
	return strings.ReplaceAll(key, ":", "/")
}

// addressingKey inverts storeKey.
func addressingKey(key string) string {
	return strings.ReplaceAll(key, "/", ":")
}
