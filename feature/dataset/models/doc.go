// Package models defines the declarative spec types for a warehouse dataset:
// Dataset, Table and Field, together with their closed type/mode enumerations
// and validation predicates.
//
// Specs are immutable declarations supplied by the caller. The sync engine
// never mutates a declaration in place; it returns a new, possibly enriched
// copy reflecting the post-sync remote truth. Clone helpers exist for that
// purpose.
//
// The JSON tags on these types are the wire shapes consumed from spec files
// and produced into archive snapshots.
package models
