package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Equal(t *testing.T) {
	base := Field{Name: "id", Type: FieldTypeInteger, Mode: ModeRequired}

	tests := []struct {
		name  string
		other Field
		want  bool
	}{
		{"identical", Field{Name: "id", Type: FieldTypeInteger, Mode: ModeRequired}, true},
		{"different mode", Field{Name: "id", Type: FieldTypeInteger, Mode: ModeNullable}, false},
		{"different type", Field{Name: "id", Type: FieldTypeString, Mode: ModeRequired}, false},
		{"description added", Field{Name: "id", Type: FieldTypeInteger, Mode: ModeRequired, Description: StrPtr("pk")}, false},
		{"default added", Field{Name: "id", Type: FieldTypeInteger, Mode: ModeRequired, Default: StrPtr("0")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Equal(tt.other))
		})
	}
}

func TestField_Equal_AbsentVsEmpty(t *testing.T) {
	absent := Field{Name: "n", Type: FieldTypeString, Mode: ModeNullable}
	empty := Field{Name: "n", Type: FieldTypeString, Mode: ModeNullable, Description: StrPtr("")}

	assert.False(t, absent.Equal(empty))
	assert.False(t, empty.Equal(absent))
	assert.True(t, empty.Equal(empty))
}

func TestField_Equal_SubfieldsAsSet(t *testing.T) {
	lat := Field{Name: "lat", Type: FieldTypeFloat, Mode: ModeNullable}
	lon := Field{Name: "lon", Type: FieldTypeFloat, Mode: ModeNullable}

	a := Field{Name: "loc", Type: FieldTypeRecord, Mode: ModeNullable, Subfields: []Field{lat, lon}}
	b := Field{Name: "loc", Type: FieldTypeRecord, Mode: ModeNullable, Subfields: []Field{lon, lat}}
	assert.True(t, a.Equal(b))

	drifted := b.Clone()
	drifted.Subfields[0].Type = FieldTypeString
	assert.False(t, a.Equal(drifted))
}

func TestField_Normalized(t *testing.T) {
	f := Field{
		Name: "loc", Type: FieldTypeRecord,
		Subfields: []Field{{Name: "lat", Type: FieldTypeFloat}},
	}

	n := f.Normalized()
	assert.Equal(t, ModeNullable, n.Mode)
	assert.Equal(t, ModeNullable, n.Subfields[0].Mode)
	// Source is untouched.
	assert.Equal(t, FieldMode(""), f.Mode)
}

func TestField_Validate(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantErr string
	}{
		{"valid", Field{Name: "id", Type: FieldTypeInteger, Mode: ModeRequired}, ""},
		{"no name", Field{Type: FieldTypeInteger}, "no name"},
		{"bad type", Field{Name: "x", Type: "varchar"}, "unrecognized type"},
		{"bad mode", Field{Name: "x", Type: FieldTypeString, Mode: "optional"}, "unrecognized mode"},
		{"empty mode ok", Field{Name: "x", Type: FieldTypeString}, ""},
		{
			"subfields on scalar",
			Field{Name: "x", Type: FieldTypeString, Subfields: []Field{{Name: "y", Type: FieldTypeString}}},
			"non-structural",
		},
		{
			"duplicate subfields",
			Field{Name: "x", Type: FieldTypeRecord, Subfields: []Field{
				{Name: "y", Type: FieldTypeString},
				{Name: "y", Type: FieldTypeInteger},
			}},
			"duplicate subfield",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr string
	}{
		{
			"standard ok",
			Table{ID: "t", Type: TableStandard, Fields: []Field{{Name: "a", Type: FieldTypeString}}},
			"",
		},
		{"standard without fields", Table{ID: "t", Type: TableStandard}, "no fields"},
		{"view ok", Table{ID: "v", Type: TableView, ViewQuery: StrPtr("select 1")}, ""},
		{"view without query", Table{ID: "v", Type: TableMaterializedView}, "no query"},
		{"unknown type", Table{ID: "t", Type: "clone"}, "unrecognized type"},
		{
			"duplicate fields",
			Table{ID: "t", Type: TableStandard, Fields: []Field{
				{Name: "a", Type: FieldTypeString},
				{Name: "a", Type: FieldTypeInteger},
			}},
			"duplicate field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDataset_Validate(t *testing.T) {
	valid := Dataset{
		Project: "p", Location: "EU", ID: "d",
		Tables: []Table{{ID: "t", Type: TableStandard, Fields: []Field{{Name: "a", Type: FieldTypeString}}}},
	}
	assert.NoError(t, valid.Validate())

	dup := valid.Clone()
	dup.Tables = append(dup.Tables, dup.Tables[0].Clone())
	err := dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate table id")

	missing := valid.Clone()
	missing.Location = ""
	assert.Error(t, missing.Validate())
}

func TestClone_IsDeep(t *testing.T) {
	d := Dataset{
		Project: "p", Location: "EU", ID: "d",
		Properties: &Properties{
			Description: StrPtr("desc"),
			Labels:      map[string]string{"env": "prod"},
		},
		Tables: []Table{{
			ID: "t", Type: TableStandard,
			Fields: []Field{{
				Name: "loc", Type: FieldTypeRecord, Mode: ModeNullable,
				Subfields: []Field{{Name: "lat", Type: FieldTypeFloat, Mode: ModeNullable}},
			}},
			Constraints: &Constraints{
				PrimaryKeys: []string{"loc"},
				ForeignKeys: []ForeignKey{{
					ReferencedTable:  "other",
					ColumnReferences: []ColumnReference{{ReferencingColumn: "a", ReferencedColumn: "b"}},
				}},
			},
		}},
	}

	c := d.Clone()
	c.Properties.Labels["env"] = "dev"
	*c.Properties.Description = "changed"
	c.Tables[0].Fields[0].Subfields[0].Name = "mutated"
	c.Tables[0].Constraints.PrimaryKeys[0] = "mutated"
	c.Tables[0].Constraints.ForeignKeys[0].ColumnReferences[0].ReferencingColumn = "mutated"

	assert.Equal(t, "prod", d.Properties.Labels["env"])
	assert.Equal(t, "desc", *d.Properties.Description)
	assert.Equal(t, "lat", d.Tables[0].Fields[0].Subfields[0].Name)
	assert.Equal(t, "loc", d.Tables[0].Constraints.PrimaryKeys[0])
	assert.Equal(t, "a", d.Tables[0].Constraints.ForeignKeys[0].ColumnReferences[0].ReferencingColumn)
}
