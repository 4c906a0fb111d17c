// Package recagent is the client SDK for the RecAgent research-assistant
// REST API. It owns the client-side session lifecycle: acquiring a bearer
// credential through login or email verification, persisting the
// credential/identity pair durably, attaching the credential to outbound
// calls, invalidating the session on authorization rejection, and
// reconciling the cached profile with server state after mutations.
//
// The package is designed for concurrent UI workloads: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build], and any number of authenticated calls may be in flight
// at once.
//
// # Architecture boundaries
//
// recagent is the public surface. It exposes [Client], [Builder], [Config],
// the error taxonomy, [Classify] for route chrome decisions,
// [NavigationController], and [ProfileSync]. Session persistence lives in
// the session subpackage; event buffering lives under internal/ and is
// re-exported through type aliases only.
//
// # What this package must NOT do
//
//   - Parse or mint credentials. The bearer token is an opaque string; there
//     is no refresh protocol and a rejected credential is only repaired by a
//     fresh login.
//   - Retry any request. Error classification is the caller's signal.
//   - Navigate directly. All redirects go through the [Navigator] the
//     application supplies, so the gateway stays testable without a router.
package recagent
