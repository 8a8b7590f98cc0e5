// Package client contains the client-side building blocks for talking to the
// SafeScan backend and for bootstrapping local storage.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Health,
//     LookupProduct, Check, restrictions, profile management and SaveHistory.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that routes every call
//     through a resolver.Resolver, so each operation is tried against the
//     configured endpoint candidates in order.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     SQLite or PostgreSQL and applies embedded goose migrations.
//
// # Error Handling
//
// Transport failure on every candidate surfaces as *resolver.NetworkError,
// matching common.ErrNetworkUnreachable. Any non-2xx answer becomes
// *StatusError, matching common.ErrRemoteRejected. Services translate these
// into the domain taxonomy.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package client
