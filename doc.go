// Package statekit provides entity state addressing for keyed state stores.
//
// # Philosophy: Identity As Data
//
// StateKit treats entity identity as plain data: an entity kind plus an
// ordered tuple of named property values, flattened into a single
// delimiter-separated key string. The key is the only identity a state
// store ever sees, so the codec that produces it must be deterministic,
// reversible, and safe under a restricted alphabet.
//
// StateKit MUST NOT contain:
//   - Domain-specific entity kinds or property vocabularies
//   - Business logic about what entities mean
//   - Assumptions about the backing store beyond a flat keyspace
//
// Domain vocabularies belong in the applications that register their
// descriptors with this module.
//
// # Architecture
//
// StateKit is layered leaf-first:
//
//	┌─────────────────────────────────────┐
//	│          statestore                 │  NATS JetStream KV store
//	│  (Put, Get, Update/CAS, Delete)     │  addressed by state keys
//	└─────────────────────────────────────┘
//	           ↓ addresses with
//	┌─────────────────────────────────────┐
//	│          statekey                   │  Codec: descriptor + props
//	│  (PropsToKey, KeyToProps, ...)      │  ↔ flat key string
//	└─────────────────────────────────────┘
//	           ↑ descriptors from
//	┌─────────────────────────────────────┐
//	│          registry                   │  Process-wide descriptor
//	│  (Register, Lookup, LoadFile)       │  registry, YAML loadable
//	└─────────────────────────────────────┘
//
// The statekey codec is pure, synchronous, and stateless; every call takes
// the descriptor explicitly. The registry and state store are the runtime
// collaborators that feed and consume it.
//
// # Key Grammar
//
// Every key produced for a descriptor follows:
//
//	key        := dashName ":" segment ( ":" segment )*
//	dashName   := lower-case dash form of the descriptor display name
//	segment    := ( [a-z0-9_] | "-" [a-z] )*
//
// Upper-case letters in values are escaped as '-' plus the lower-case
// letter, which keeps arbitrary case-sensitive values inside the
// restricted alphabet while staying reversible.
package statekit
