// Package warehouse defines the remote-store adapter boundary: the Client
// interface the sync engine drives, the remote resource shapes it reads, and
// the structured error types surfaced across the boundary.
//
// All resilience lives behind this interface. Implementations own
// connection handling, authentication and any retry/backoff of individual
// calls; the sync engine never retries and issues every call sequentially.
//
// The mysqlmeta subpackage provides a MySQL-backed implementation;
// the mocks subpackage provides a testify mock for tests.
package warehouse
