package models

// FieldType is the closed set of field types a declaration may use.
type FieldType string

const (
	FieldTypeString     FieldType = "string"
	FieldTypeBytes      FieldType = "bytes"
	FieldTypeInteger    FieldType = "integer"
	FieldTypeFloat      FieldType = "float"
	FieldTypeNumeric    FieldType = "numeric"
	FieldTypeBigNumeric FieldType = "bignumeric"
	FieldTypeBoolean    FieldType = "boolean"
	FieldTypeTimestamp  FieldType = "timestamp"
	FieldTypeDate       FieldType = "date"
	FieldTypeTime       FieldType = "time"
	FieldTypeDateTime   FieldType = "datetime"
	FieldTypeGeography  FieldType = "geography"
	FieldTypeJSON       FieldType = "json"
	FieldTypeInterval   FieldType = "interval"
	FieldTypeRecord     FieldType = "record"
	FieldTypeStruct     FieldType = "struct"
	FieldTypeRange      FieldType = "range"
)

// fieldTypes is the recognition set for IsValid.
var fieldTypes = map[FieldType]struct{}{
	FieldTypeString: {}, FieldTypeBytes: {}, FieldTypeInteger: {},
	FieldTypeFloat: {}, FieldTypeNumeric: {}, FieldTypeBigNumeric: {},
	FieldTypeBoolean: {}, FieldTypeTimestamp: {}, FieldTypeDate: {},
	FieldTypeTime: {}, FieldTypeDateTime: {}, FieldTypeGeography: {},
	FieldTypeJSON: {}, FieldTypeInterval: {}, FieldTypeRecord: {},
	FieldTypeStruct: {}, FieldTypeRange: {},
}

// IsValid reports whether t is a recognized field type.
func (t FieldType) IsValid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// IsStructural reports whether t nests subfields (record/struct kinds).
func (t FieldType) IsStructural() bool {
	return t == FieldTypeRecord || t == FieldTypeStruct
}

// FieldMode is the nullability/cardinality mode of a field.
type FieldMode string

const (
	ModeNullable FieldMode = "nullable"
	ModeRequired FieldMode = "required"
	ModeRepeated FieldMode = "repeated"
)

// IsValid reports whether m is one of the three recognized modes.
func (m FieldMode) IsValid() bool {
	switch m {
	case ModeNullable, ModeRequired, ModeRepeated:
		return true
	default:
		return false
	}
}

// TableType is the closed set of table kinds.
type TableType string

const (
	TableStandard         TableType = "standard"
	TableView             TableType = "view"
	TableMaterializedView TableType = "materialized-view"
	TableExternal         TableType = "external"
	TableSnapshot         TableType = "snapshot"
	TableModel            TableType = "model"
)

// IsValid reports whether t is a recognized table type.
func (t TableType) IsValid() bool {
	switch t {
	case TableStandard, TableView, TableMaterializedView, TableExternal, TableSnapshot, TableModel:
		return true
	default:
		return false
	}
}

// IsView reports whether the table kind is defined by a query rather than a schema.
func (t TableType) IsView() bool {
	return t == TableView || t == TableMaterializedView
}

// Field is a single typed column declaration. Subfields are only meaningful
// for structural types; Name must be unique among siblings.
//
// Optional attributes are pointers so that an absent attribute stays distinct
// from an explicitly empty one.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Mode        FieldMode `json:"mode,omitempty"`
	Description *string   `json:"description,omitempty"`
	Default     *string   `json:"default,omitempty"`
	Subfields   []Field   `json:"fields,omitempty"`
}

// ColumnReference maps a referencing column to the referenced column of a
// foreign table.
type ColumnReference struct {
	ReferencingColumn string `json:"referencing_column"`
	ReferencedColumn  string `json:"referenced_column"`
}

// ForeignKey records a foreign-key relationship. Ceiba records constraints on
// creation but never enforces them afterwards.
type ForeignKey struct {
	Name             string            `json:"name,omitempty"`
	ReferencedTable  string            `json:"referenced_table"`
	ColumnReferences []ColumnReference `json:"column_references"`
}

// Constraints carries the primary-key and foreign-key declarations of a table.
type Constraints struct {
	PrimaryKeys []string     `json:"primary_keys,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// Table declares a single table. Exactly one of Fields/ViewQuery is
// authoritative depending on Type: standard tables carry Fields, view kinds
// carry ViewQuery.
type Table struct {
	ID          string       `json:"id"`
	Type        TableType    `json:"type"`
	Description *string      `json:"description,omitempty"`
	Fields      []Field      `json:"fields,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
	ViewQuery   *string      `json:"view_query,omitempty"`
}

// Properties holds dataset-level user metadata. Labels never contain
// reserved (system-owned) keys once a spec has passed through the sync
// engine.
type Properties struct {
	Description *string           `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Dataset is the top-level declaration: a named collection of tables in a
// project/location.
type Dataset struct {
	Project    string      `json:"project"`
	Location   string      `json:"location"`
	ID         string      `json:"id"`
	Properties *Properties `json:"properties,omitempty"`
	Tables     []Table     `json:"tables"`
}

// StrPtr returns a pointer to s. Convenience for building specs with
// optional attributes.
func StrPtr(s string) *string {
	return &s
}
