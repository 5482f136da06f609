package statestore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/statekit/errors"
	"github.com/c360/statekit/pkg/retry"
	"github.com/c360/statekit/statekey"
)

// Options configures KVStore behavior
type Options struct {
	Timeout      time.Duration // Per-operation timeout (0 = rely on caller's context)
	MaxValueSize int           // Maximum encoded instance size (0 = unlimited)
	CASRetry     retry.Config  // Backoff for the Update conflict loop
	Logger       *slog.Logger  // Optional; nil disables store logging
	Metrics      *Metrics      // Optional; nil disables instrumentation
}

// DefaultOptions returns sensible defaults matching high-contention
// entity-state workloads.
func DefaultOptions() Options {
	return Options{
		Timeout:      5 * time.Second,
		MaxValueSize: 1024 * 1024,
		CASRetry:     retry.Quick(),
	}
}

// KVStore implements Store on a NATS JetStream KV bucket.
type KVStore struct {
	bucket  jetstream.KeyValue
	options Options
}

var _ Store = (*KVStore)(nil)

// New creates a KVStore over the given bucket.
func New(bucket jetstream.KeyValue, opts ...func(*Options)) *KVStore {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &KVStore{bucket: bucket, options: options}
}

// applyTimeout applies the configured timeout to the context if set
func (s *KVStore) applyTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.options.Timeout > 0 {
		return context.WithTimeout(ctx, s.options.Timeout)
	}
	return ctx, func() {}
}

// Put stores the instance under its own state key, last writer wins.
func (s *KVStore) Put(ctx context.Context, inst statekey.Instance) (uint64, error) {
	start := time.Now()
	rev, err := s.put(ctx, inst)
	s.options.Metrics.observe("put", start, err)
	return rev, err
}

func (s *KVStore) put(ctx context.Context, inst statekey.Instance) (uint64, error) {
	key, err := statekey.StateKeyOf(inst)
	if err != nil {
		return 0, errors.WrapInvalid(err, "KVStore", "Put", "instance validation")
	}
	if inst.Kind == "" {
		kind, err := statekey.KindToken(key)
		if err != nil {
			return 0, errors.WrapInvalid(err, "KVStore", "Put", "state key validation")
		}
		inst.Kind = kind
	}

	data, err := s.encode(inst)
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.applyTimeout(ctx)
	defer cancel()

	rev, err := s.bucket.Put(ctx, storeKey(key), data)
	if err != nil {
		return 0, errors.WrapTransient(err, "KVStore", "Put", "kv write")
	}
	if s.options.Logger != nil {
		s.options.Logger.Debug("state put", "key", key, "revision", rev)
	}
	return rev, nil
}

// Get retrieves the instance stored under key.
func (s *KVStore) Get(ctx context.Context, key string) (statekey.Instance, error) {
	start := time.Now()
	inst, err := s.get(ctx, key)
	s.options.Metrics.observe("get", start, err)
	return inst, err
}

func (s *KVStore) get(ctx context.Context, key string) (statekey.Instance, error) {
	ctx, cancel := s.applyTimeout(ctx)
	defer cancel()

	entry, err := s.bucket.Get(ctx, storeKey(key))
	if err != nil {
		if isNotFound(err) {
			return statekey.Instance{}, errors.ErrKeyNotFound
		}
		return statekey.Instance{}, errors.WrapTransient(err, "KVStore", "Get", "kv read")
	}

	var inst statekey.Instance
	if err := json.Unmarshal(entry.Value(), &inst); err != nil {
		return statekey.Instance{}, errors.WrapFatal(errors.ErrDataCorrupted, "KVStore", "Get", "instance decode")
	}
	if inst.StateKey == "" {
		inst.StateKey = key
	}
	inst.Revision = entry.Revision()
	return inst, nil
}

// Update applies mutate under CAS, retrying revision conflicts with
// exponential backoff. A missing key starts from a zero instance carrying
// only the key, created rather than updated.
func (s *KVStore) Update(ctx context.Context, key string, mutate func(statekey.Instance) (statekey.Instance, error)) (statekey.Instance, error) {
	start := time.Now()
	inst, err := s.update(ctx, key, mutate)
	s.options.Metrics.observe("update", start, err)
	return inst, err
}

func (s *KVStore) update(ctx context.Context, key string, mutate func(statekey.Instance) (statekey.Instance, error)) (statekey.Instance, error) {
	ctx, cancel := s.applyTimeout(ctx)
	defer cancel()

	var result statekey.Instance
	attempt := 0

	err := retry.Do(ctx, s.options.CASRetry, func() error {
		attempt++

		current, err := s.get(ctx, key)
		if err != nil {
			if !stderrors.Is(err, errors.ErrKeyNotFound) {
				return err
			}
			current = statekey.Instance{StateKey: key}
		}

		next, err := mutate(current)
		if err != nil {
			// Caller logic error, retrying cannot help.
			return retry.NonRetryable(err)
		}
		next.StateKey = key

		data, err := s.encode(next)
		if err != nil {
			return retry.NonRetryable(err)
		}

		var rev uint64
		if current.Revision == 0 {
			rev, err = s.bucket.Create(ctx, storeKey(key), data)
		} else {
			rev, err = s.bucket.Update(ctx, storeKey(key), data, current.Revision)
		}
		if err != nil {
			if isConflict(err) {
				s.options.Metrics.conflict()
				if s.options.Logger != nil {
					s.options.Logger.Debug("state update conflict", "key", key, "attempt", attempt)
				}
				return errors.ErrRevisionConflict
			}
			return errors.WrapTransient(err, "KVStore", "Update", "kv write")
		}

		next.Revision = rev
		result = next
		return nil
	})
	if err != nil {
		return statekey.Instance{}, err
	}
	return result, nil
}

// Delete removes the instance under key. Missing keys are not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.delete(ctx, key)
	s.options.Metrics.observe("delete", start, err)
	return err
}

func (s *KVStore) delete(ctx context.Context, key string) error {
	ctx, cancel := s.applyTimeout(ctx)
	defer cancel()

	if err := s.bucket.Delete(ctx, storeKey(key)); err != nil && !isNotFound(err) {
		return errors.WrapTransient(err, "KVStore", "Delete", "kv delete")
	}
	return nil
}

// List returns the addressing keys of every stored instance of the
// descriptor's kind.
func (s *KVStore) List(ctx context.Context, d statekey.Descriptor) ([]string, error) {
	start := time.Now()
	keys, err := s.list(ctx, d)
	s.options.Metrics.observe("list", start, err)
	return keys, err
}

func (s *KVStore) list(ctx context.Context, d statekey.Descriptor) ([]string, error) {
	ctx, cancel := s.applyTimeout(ctx)
	defer cancel()

	lister, err := s.bucket.ListKeys(ctx)
	if err != nil {
		return nil, errors.WrapTransient(err, "KVStore", "List", "kv key listing")
	}
	defer lister.Stop()

	prefix := d.DashName() + "/"
	var keys []string
	for key := range lister.Keys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, addressingKey(key))
		}
	}
	return keys, nil
}

// encode marshals the instance and enforces the size limit.
func (s *KVStore) encode(inst statekey.Instance) ([]byte, error) {
	data, err := json.Marshal(inst)
	if err != nil {
		return nil, errors.WrapInvalid(err, "KVStore", "encode", "instance marshal")
	}
	if s.options.MaxValueSize > 0 && len(data) > s.options.MaxValueSize {
		return nil, errors.WrapFatal(errors.ErrValueTooLarge, "KVStore", "encode", "instance size check")
	}
	return data, nil
}

// isNotFound checks if error indicates key not found
func isNotFound(err error) bool {
	return stderrors.Is(err, jetstream.ErrKeyNotFound) ||
		stderrors.Is(err, jetstream.ErrKeyDeleted) ||
		stderrors.Is(err, errors.ErrKeyNotFound)
}

// isConflict checks if error indicates a CAS conflict (key exists or
// wrong revision)
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, jetstream.ErrKeyExists) || stderrors.Is(err, errors.ErrRevisionConflict) {
		return true
	}
	// Raw server responses that predate the typed errors.
	msg := err.Error()
	return strings.Contains(msg, "wrong last sequence") ||
		strings.Contains(msg, "10071") ||
		strings.Contains(msg, "key exists") ||
		strings.Contains(msg, "10058")
}
