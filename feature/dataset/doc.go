// Package dataset wires the sync engine into the application: a Service
// that runs syncs and archives the post-sync spec, a fiber Handler exposing
// the sync endpoints, and a loader for spec files.
//
// # HTTP Endpoints
//
//   - POST /datasets/sync : Sync a declared dataset spec (request body).
//     The optional "tables" query parameter restricts the sync to a
//     comma-separated table-id subset.
package dataset
