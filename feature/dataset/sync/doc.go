// Package sync implements the reconciliation engine that makes a remote
// warehouse dataset match a declared spec without ever deleting anything.
//
// The engine is built from four parts:
//
//  1. Field reconciler: per-table schema diff and accretive merge. New
//     declared fields are appended (sanitized to nullable, defaults
//     dropped); remote-only fields are adopted, never removed; view-query
//     drift is logged and the remote text wins.
//  2. Table orchestrator: classifies declared vs remote tables as novel /
//     common / untracked, creates what is missing, reconciles what is
//     shared, and adopts what exists only remotely.
//  3. Property reconciler: merges dataset description and labels with
//     remote precedence.
//  4. Dataset orchestrator: the top-level state machine, keyed on content
//     hashes persisted as reserved dataset labels, so an unchanged spec
//     costs a single existence check and repeated syncs are idempotent.
//
// Every remote interaction is a blocking sequential call through the
// warehouse.Client adapter; reads always precede the single consolidated
// label/description write-back, and the engine never retries. Concurrent
// syncs of the same dataset race on the label map; the last writer wins.
// That is an accepted limitation, not something the engine locks against.
package sync
