package hash

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"

	"ceiba/feature/dataset/models"

	"github.com/spaolacci/murmur3"
)

// sum renders the murmur3 128-bit digest of b as lowercase hex.
func sum(b []byte) string {
	h1, h2 := murmur3.Sum128(b)
	var out [16]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(h1 >> (56 - 8*i))
		out[8+i] = byte(h2 >> (56 - 8*i))
	}
	return hex.EncodeToString(out[:])
}

// writeStr appends a length-prefixed string so that adjacent values can
// never collide by concatenation.
func writeStr(buf *bytes.Buffer, s string) {
	fmt.Fprintf(buf, "%d:%s;", len(s), s)
}

// writeOpt appends an optional string, keeping absent distinct from empty.
func writeOpt(buf *bytes.Buffer, p *string) {
	if p == nil {
		buf.WriteString("-;")
		return
	}
	buf.WriteString("+")
	writeStr(buf, *p)
}

// Field returns the digest of a single field. Subfields are hashed as a set:
// sibling order does not affect schema semantics.
func Field(f models.Field) string {
	var buf bytes.Buffer
	writeStr(&buf, "field")
	writeStr(&buf, f.Name)
	writeStr(&buf, string(f.Type))
	writeStr(&buf, string(f.Mode))
	writeOpt(&buf, f.Description)
	writeOpt(&buf, f.Default)
	subs := make([]string, len(f.Subfields))
	for i, sub := range f.Subfields {
		subs[i] = Field(sub)
	}
	sort.Strings(subs)
	for _, d := range subs {
		writeStr(&buf, d)
	}
	return sum(buf.Bytes())
}

// FieldSet returns the order-insensitive digest of a field sequence.
func FieldSet(fields []models.Field) string {
	digests := make([]string, len(fields))
	for i, f := range fields {
		digests[i] = Field(f)
	}
	sort.Strings(digests)
	var buf bytes.Buffer
	writeStr(&buf, "fieldset")
	for _, d := range digests {
		writeStr(&buf, d)
	}
	return sum(buf.Bytes())
}

// Table returns the digest of a single table spec.
func Table(t models.Table) string {
	var buf bytes.Buffer
	writeStr(&buf, "table")
	writeStr(&buf, t.ID)
	writeStr(&buf, string(t.Type))
	writeOpt(&buf, t.Description)
	writeOpt(&buf, t.ViewQuery)
	writeStr(&buf, FieldSet(t.Fields))
	if t.Constraints != nil {
		writeStr(&buf, "constraints")
		for _, pk := range t.Constraints.PrimaryKeys {
			writeStr(&buf, pk)
		}
		for _, fk := range t.Constraints.ForeignKeys {
			writeStr(&buf, fk.Name)
			writeStr(&buf, fk.ReferencedTable)
			for _, ref := range fk.ColumnReferences {
				writeStr(&buf, ref.ReferencingColumn)
				writeStr(&buf, ref.ReferencedColumn)
			}
		}
	}
	return sum(buf.Bytes())
}

// Tables returns the digest of the full table sequence, in order.
func Tables(tables []models.Table) string {
	var buf bytes.Buffer
	writeStr(&buf, "tables")
	for _, t := range tables {
		writeStr(&buf, Table(t))
	}
	return sum(buf.Bytes())
}

// Properties returns the digest of dataset-level properties. Callers strip
// reserved labels before hashing; label keys are sorted so map iteration
// order never leaks into the digest.
func Properties(p *models.Properties) string {
	var buf bytes.Buffer
	writeStr(&buf, "properties")
	if p == nil {
		return sum(buf.Bytes())
	}
	writeOpt(&buf, p.Description)
	keys := make([]string, 0, len(p.Labels))
	for k := range p.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeStr(&buf, k)
		writeStr(&buf, p.Labels[k])
	}
	return sum(buf.Bytes())
}

// Dataset returns the top-level digest covering identity, properties and the
// table sequence. Used as the whole-spec cache key.
func Dataset(d models.Dataset) string {
	var buf bytes.Buffer
	writeStr(&buf, "dataset")
	writeStr(&buf, d.Project)
	writeStr(&buf, d.Location)
	writeStr(&buf, d.ID)
	writeStr(&buf, Properties(d.Properties))
	writeStr(&buf, Tables(d.Tables))
	return sum(buf.Bytes())
}
