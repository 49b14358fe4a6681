package models

// Equal reports whether two fields match on every populated attribute,
// recursively for subfields. An absent optional attribute is distinct from an
// explicitly empty one, so drift detection treats them as different fields.
func (f Field) Equal(other Field) bool {
	if f.Name != other.Name || f.Type != other.Type || f.Mode != other.Mode {
		return false
	}
	if !strPtrEqual(f.Description, other.Description) {
		return false
	}
	if !strPtrEqual(f.Default, other.Default) {
		return false
	}
	if len(f.Subfields) != len(other.Subfields) {
		return false
	}
	// Subfields are compared as a set keyed by name; schema semantics do not
	// depend on sibling order.
	byName := make(map[string]Field, len(other.Subfields))
	for _, sub := range other.Subfields {
		byName[sub.Name] = sub
	}
	for _, sub := range f.Subfields {
		match, ok := byName[sub.Name]
		if !ok || !sub.Equal(match) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	out.Description = cloneStrPtr(f.Description)
	out.Default = cloneStrPtr(f.Default)
	if f.Subfields != nil {
		out.Subfields = make([]Field, len(f.Subfields))
		for i, sub := range f.Subfields {
			out.Subfields[i] = sub.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	out.Description = cloneStrPtr(t.Description)
	out.ViewQuery = cloneStrPtr(t.ViewQuery)
	if t.Fields != nil {
		out.Fields = make([]Field, len(t.Fields))
		for i, f := range t.Fields {
			out.Fields[i] = f.Clone()
		}
	}
	if t.Constraints != nil {
		c := Constraints{}
		if t.Constraints.PrimaryKeys != nil {
			c.PrimaryKeys = append([]string(nil), t.Constraints.PrimaryKeys...)
		}
		if t.Constraints.ForeignKeys != nil {
			c.ForeignKeys = make([]ForeignKey, len(t.Constraints.ForeignKeys))
			for i, fk := range t.Constraints.ForeignKeys {
				nfk := fk
				nfk.ColumnReferences = append([]ColumnReference(nil), fk.ColumnReferences...)
				c.ForeignKeys[i] = nfk
			}
		}
		out.Constraints = &c
	}
	return out
}

// Clone returns a deep copy of the properties.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := Properties{Description: cloneStrPtr(p.Description)}
	if p.Labels != nil {
		out.Labels = make(map[string]string, len(p.Labels))
		for k, v := range p.Labels {
			out.Labels[k] = v
		}
	}
	return &out
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	out := d
	out.Properties = d.Properties.Clone()
	if d.Tables != nil {
		out.Tables = make([]Table, len(d.Tables))
		for i, t := range d.Tables {
			out.Tables[i] = t.Clone()
		}
	}
	return out
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
