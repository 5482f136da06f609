package statestore

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360/statekit/errors"
	"github.com/c360/statekit/pkg/retry"
)

// BucketConfig describes the JetStream KV bucket backing a store.
type BucketConfig struct {
	Bucket      string        `json:"bucket"`
	Description string        `json:"description,omitempty"`
	History     uint8         `json:"history,omitempty"`
	TTL         time.Duration `json:"ttl,omitempty"`
	Replicas    int           `json:"replicas,omitempty"`
}

// Validate ensures the bucket configuration is usable
func (c BucketConfig) Validate() error {
	if c.Bucket == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "BucketConfig", "Validate", "bucket name cannot be empty")
	}
	return nil
}

// OpenBucket binds to the configured KV bucket, creating it when it does
// not exist yet. Lookup is retried with quick backoff so a store can come
// up alongside its NATS server.
func OpenBucket(ctx context.Context, nc *nats.Conn, cfg BucketConfig) (jetstream.KeyValue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nc == nil {
		return nil, errors.WrapInvalid(errors.ErrNoConnection, "statestore", "OpenBucket", "nats connection check")
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, errors.WrapFatal(err, "statestore", "OpenBucket", "jetstream init")
	}

	return retry.DoWithResult(ctx, retry.Quick(), func() (jetstream.KeyValue, error) {
		kv, err := js.KeyValue(ctx, cfg.Bucket)
		if err == nil {
			return kv, nil
		}
		if !stderrors.Is(err, jetstream.ErrBucketNotFound) {
			return nil, err
		}
		return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      cfg.Bucket,
			Description: cfg.Description,
			History:     cfg.History,
			TTL:         cfg.TTL,
			Replicas:    cfg.Replicas,
		})
	})
}
