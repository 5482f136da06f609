// Package statestore provides the runtime state store that holds entity
// instances addressed by statekey addressing keys.
//
// The Store interface is the pluggable backend boundary; KVStore is the
// NATS JetStream KV implementation. Addressing keys are produced by the
// statekey codec and mapped onto the KV keyspace by swapping the ':'
// delimiter for '/' (the codec alphabet excludes '/', so the mapping is
// reversible and the store keyspace stays hierarchical).
//
// Writes are guarded by statekey.StateKeyOf, so an instance without its
// key field never reaches the bucket. Update runs a compare-and-swap loop
// with exponential backoff on revision conflicts.
//
// # Usage
//
//	bucket, err := statestore.OpenBucket(ctx, nc, statestore.BucketConfig{
//	    Bucket: "entity-state",
//	})
//	store := statestore.New(bucket)
//
//	rev, err := store.Put(ctx, statekey.Instance{
//	    StateKey: key,
//	    State:    document,
//	})
package statestore
