package mysqlmeta

import (
	"context"
	"fmt"
	"strings"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"
)

// ListTables returns the ids of all tables and views in the dataset schema,
// sorted by name.
func (s *Store) ListTables(ctx context.Context, datasetID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Raw("SELECT table_name FROM information_schema.tables WHERE table_schema = ? ORDER BY table_name", datasetID).
		Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tables of dataset %s: %w", datasetID, err)
	}
	return ids, nil
}

// columnInfo matches the output of SHOW FULL COLUMNS.
type columnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
	Comment string
}

// GetTable introspects one table or view into its remote definition.
func (s *Store) GetTable(ctx context.Context, datasetID, tableID string) (*warehouse.TableInfo, error) {
	var head struct {
		TableType    string
		TableComment string
	}
	err := s.db.WithContext(ctx).
		Raw("SELECT table_type, table_comment FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			datasetID, tableID).
		Scan(&head).Error
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s.%s: %w", datasetID, tableID, err)
	}
	if head.TableType == "" {
		return nil, fmt.Errorf("table %s.%s: %w", datasetID, tableID, warehouse.ErrTableNotFound)
	}

	info := &warehouse.TableInfo{ID: tableID}
	if head.TableComment != "" {
		info.Description = models.StrPtr(head.TableComment)
	}

	if head.TableType == "VIEW" {
		info.Kind = string(models.TableView)
		var def string
		err := s.db.WithContext(ctx).
			Raw("SELECT view_definition FROM information_schema.views WHERE table_schema = ? AND table_name = ?",
				datasetID, tableID).
			Scan(&def).Error
		if err != nil {
			return nil, fmt.Errorf("failed to read view %s.%s: %w", datasetID, tableID, err)
		}
		info.ViewQuery = models.StrPtr(def)
		return info, nil
	}

	info.Kind = string(models.TableStandard)
	var cols []columnInfo
	err = s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SHOW FULL COLUMNS FROM `%s`.`%s`", datasetID, tableID)).
		Scan(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s.%s: %w", datasetID, tableID, err)
	}

	var primaryKeys []string
	for _, col := range cols {
		f := models.Field{
			Name: col.Field,
			Type: fieldTypeFromColumn(col.Type),
			Mode: models.ModeNullable,
		}
		if col.Null == "NO" {
			f.Mode = models.ModeRequired
		}
		if col.Comment != "" {
			f.Description = models.StrPtr(col.Comment)
		}
		if col.Default != nil {
			f.Default = models.StrPtr(*col.Default)
		}
		info.Fields = append(info.Fields, f)
		if col.Key == "PRI" {
			primaryKeys = append(primaryKeys, col.Field)
		}
	}
	if len(primaryKeys) > 0 {
		info.Constraints = &models.Constraints{PrimaryKeys: primaryKeys}
	}
	return info, nil
}

// CreateTable creates a table or view from the declared spec.
func (s *Store) CreateTable(ctx context.Context, datasetID string, spec models.Table) error {
	var ddl string
	switch {
	case spec.Type.IsView():
		if spec.ViewQuery == nil {
			return fmt.Errorf("create view %s.%s: no query", datasetID, spec.ID)
		}
		ddl = fmt.Sprintf("CREATE VIEW `%s`.`%s` AS %s", datasetID, spec.ID, *spec.ViewQuery)
	default:
		var err error
		ddl, err = createTableDDL(datasetID, spec)
		if err != nil {
			return fmt.Errorf("failed to create %s.%s: %w", datasetID, spec.ID, err)
		}
	}
	if err := s.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create %s.%s: %w", datasetID, spec.ID, err)
	}
	return nil
}

// createTableDDL renders a CREATE TABLE statement with columns, primary key
// and recorded (non-enforced) foreign keys.
func createTableDDL(datasetID string, spec models.Table) (string, error) {
	var parts []string
	for _, f := range spec.Fields {
		col, err := columnDDL(f)
		if err != nil {
			return "", err
		}
		parts = append(parts, col)
	}
	if spec.Constraints != nil {
		if len(spec.Constraints.PrimaryKeys) > 0 {
			parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", backtickList(spec.Constraints.PrimaryKeys)))
		}
		for _, fk := range spec.Constraints.ForeignKeys {
			var from, to []string
			for _, ref := range fk.ColumnReferences {
				from = append(from, ref.ReferencingColumn)
				to = append(to, ref.ReferencedColumn)
			}
			parts = append(parts, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES `%s` (%s)",
				backtickList(from), fk.ReferencedTable, backtickList(to)))
		}
	}
	ddl := fmt.Sprintf("CREATE TABLE `%s`.`%s` (%s)", datasetID, spec.ID, strings.Join(parts, ", "))
	if spec.Description != nil && *spec.Description != "" {
		ddl += fmt.Sprintf(" COMMENT = '%s'", escapeSQLString(*spec.Description))
	}
	return ddl, nil
}

// columnDDL renders a single column definition.
func columnDDL(f models.Field) (string, error) {
	col, err := columnType(f)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` %s", f.Name, col)
	if f.Mode == models.ModeRequired {
		b.WriteString(" NOT NULL")
	} else {
		b.WriteString(" NULL")
	}
	if f.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", *f.Default)
	}
	if f.Description != nil && *f.Description != "" {
		fmt.Fprintf(&b, " COMMENT '%s'", escapeSQLString(*f.Description))
	}
	return b.String(), nil
}

// UpdateTableSchema adds the columns of fields that do not exist yet.
// Existing columns are never altered or dropped, so the update is purely
// additive and safe to repeat.
func (s *Store) UpdateTableSchema(ctx context.Context, datasetID, tableID string, fields []models.Field) error {
	var cols []columnInfo
	err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SHOW FULL COLUMNS FROM `%s`.`%s`", datasetID, tableID)).
		Scan(&cols).Error
	if err != nil {
		return fmt.Errorf("failed to read columns of %s.%s: %w", datasetID, tableID, err)
	}
	existing := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		existing[col.Field] = struct{}{}
	}

	for _, f := range fields {
		if _, ok := existing[f.Name]; ok {
			continue
		}
		col, err := columnDDL(f)
		if err != nil {
			return fmt.Errorf("failed to add column %s to %s.%s: %w", f.Name, datasetID, tableID, err)
		}
		alter := fmt.Sprintf("ALTER TABLE `%s`.`%s` ADD COLUMN %s", datasetID, tableID, col)
		if err := s.db.WithContext(ctx).Exec(alter).Error; err != nil {
			return fmt.Errorf("failed to add column %s to %s.%s: %w", f.Name, datasetID, tableID, err)
		}
	}
	return nil
}

func backtickList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
