// Package session owns the credential/identity pair for an authenticated
// RecAgent client. The pair is held in memory behind [Store] and mirrored to
// a durable key-value backend ([KV]) so a restarted process can resume the
// session without a fresh login.
//
// Invariant: credential and identity are present together or absent
// together. Persisted state that violates the invariant, or an identity
// blob that fails to decode, is treated as corrupt and reset to fully
// absent during [Store.Load]. Callers never observe a partial pair.
//
// All mutation goes through [Store.Set] and [Store.Clear]; consumers read
// through [Store.Current] and never write the pair directly.
package session
