package models

import "fmt"

// Validate checks that the field carries a recognized type and mode, that its
// name is present, that subfields only appear on structural types, and that
// sibling names are unique. It recurses into subfields.
func (f Field) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("field has no name")
	}
	if !f.Type.IsValid() {
		return fmt.Errorf("field %q: unrecognized type %q", f.Name, f.Type)
	}
	if f.Mode != "" && !f.Mode.IsValid() {
		return fmt.Errorf("field %q: unrecognized mode %q", f.Name, f.Mode)
	}
	if len(f.Subfields) > 0 && !f.Type.IsStructural() {
		return fmt.Errorf("field %q: subfields on non-structural type %q", f.Name, f.Type)
	}
	seen := make(map[string]struct{}, len(f.Subfields))
	for _, sub := range f.Subfields {
		if _, dup := seen[sub.Name]; dup {
			return fmt.Errorf("field %q: duplicate subfield %q", f.Name, sub.Name)
		}
		seen[sub.Name] = struct{}{}
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Normalized returns a copy of the field with an empty mode defaulted to
// nullable, matching the wire contract where mode is optional.
func (f Field) Normalized() Field {
	out := f.Clone()
	if out.Mode == "" {
		out.Mode = ModeNullable
	}
	for i := range out.Subfields {
		out.Subfields[i] = out.Subfields[i].Normalized()
	}
	return out
}

// Validate checks the table's type and that the type-appropriate
// authoritative attribute is present: fields for standard tables, a view
// query for view kinds.
func (t Table) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("table has no id")
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("table %q: unrecognized type %q", t.ID, t.Type)
	}
	switch {
	case t.Type == TableStandard:
		if len(t.Fields) == 0 {
			return fmt.Errorf("table %q: standard table declares no fields", t.ID)
		}
	case t.Type.IsView():
		if t.ViewQuery == nil || *t.ViewQuery == "" {
			return fmt.Errorf("table %q: view table declares no query", t.ID)
		}
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("table %q: duplicate field %q", t.ID, f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := f.Validate(); err != nil {
			return fmt.Errorf("table %q: %w", t.ID, err)
		}
	}
	return nil
}

// Validate checks the dataset's required identity attributes and every
// declared table. Table ids must be unique (case-sensitive).
func (d Dataset) Validate() error {
	if d.Project == "" {
		return fmt.Errorf("dataset has no project")
	}
	if d.Location == "" {
		return fmt.Errorf("dataset has no location")
	}
	if d.ID == "" {
		return fmt.Errorf("dataset has no id")
	}
	seen := make(map[string]struct{}, len(d.Tables))
	for _, t := range d.Tables {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("dataset %q: duplicate table id %q", d.ID, t.ID)
		}
		seen[t.ID] = struct{}{}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("dataset %q: %w", d.ID, err)
		}
	}
	return nil
}
