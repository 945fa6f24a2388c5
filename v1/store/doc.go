// Package store abstracts the shared key-value backend behind the five
// primitives the lock coordinator needs. Implementations exist for an
// in-process map, Redis and NATS JetStream KV. Adapters translate calls and
// errors only; all locking logic lives in the lock package.
package store
