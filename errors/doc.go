// Package errors provides standardized error handling for StateKit.
//
// # Overview
//
// The package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable),
// and Fatal (unrecoverable, stop processing).
//
// Classification lets the state store and its callers decide on retries
// without string matching: a KV revision conflict is transient and worth
// another CAS round, a codec fault on a malformed key is invalid and never
// will be, an oversized value is fatal for that write.
//
// The system integrates with Go's standard error handling, supporting
// errors.Is(), errors.As(), and wrapping chains.
//
// # Quick Start
//
// Return sentinel variables for known conditions:
//
//	if entry == nil {
//	    return errors.ErrKeyNotFound
//	}
//
// Wrap errors with classification and context at component boundaries:
//
//	if err := bucket.Put(ctx, key, data); err != nil {
//	    return errors.WrapTransient(err, "KVStore", "Put", "kv write")
//	}
//
// Branch on classification:
//
//	if errors.IsTransient(err) {
//	    return retry.Do(ctx, cfg, op)
//	}
package errors
