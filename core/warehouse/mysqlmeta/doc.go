// Package mysqlmeta implements the warehouse.Client adapter over MySQL.
//
// A dataset maps to a MySQL schema. Dataset-level metadata that MySQL has no
// native home for (location, description, labels) lives in two tables of a
// dedicated metadata schema, so the user-facing dataset schemas stay clean.
// Table schemas are introspected through SHOW COLUMNS and evolved with
// additive ALTER TABLE ADD COLUMN statements only; the adapter has no code
// path that drops a schema, a table or a column.
package mysqlmeta
