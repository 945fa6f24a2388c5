// Package lock implements a distributed mutual-exclusion lock coordinated
// through a shared key-value store. Independent processes serialize access to
// a named resource using only the store's atomic single-key primitives; no
// in-process locking is involved. A held lock is represented by a record whose
// value is its absolute expiry time in epoch milliseconds, so crashed holders
// are taken over once that timestamp passes. The store-level TTL the
// coordinator additionally requests is reclamation only, never a correctness
// mechanism.
//
// Exclusion holds under bounded clock drift between callers and the store.
// This is not a consensus protocol and carries no fencing tokens: releases are
// ownerless, and exclusivity is not guaranteed across partitions.
package lock
