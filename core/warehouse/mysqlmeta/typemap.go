package mysqlmeta

import (
	"strings"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"
)

// columnTypes maps field types to the MySQL column types used on creation.
// Structural and repeated values are stored as JSON documents.
var columnTypes = map[models.FieldType]string{
	models.FieldTypeString:     "text",
	models.FieldTypeBytes:      "blob",
	models.FieldTypeInteger:    "bigint",
	models.FieldTypeFloat:      "double",
	models.FieldTypeNumeric:    "decimal(38,9)",
	models.FieldTypeBigNumeric: "decimal(65,30)",
	models.FieldTypeBoolean:    "tinyint(1)",
	models.FieldTypeTimestamp:  "timestamp(6)",
	models.FieldTypeDate:       "date",
	models.FieldTypeTime:       "time(6)",
	models.FieldTypeDateTime:   "datetime(6)",
	models.FieldTypeGeography:  "geometry",
	models.FieldTypeJSON:       "json",
	models.FieldTypeInterval:   "varchar(255)",
	models.FieldTypeRecord:     "json",
	models.FieldTypeStruct:     "json",
	models.FieldTypeRange:      "varchar(255)",
}

// columnType renders the MySQL column type for a field. Repeated fields
// always become JSON arrays regardless of their element type. A type outside
// the declarable set is rejected, never silently degraded.
func columnType(f models.Field) (string, error) {
	if f.Mode == models.ModeRepeated {
		return "json", nil
	}
	if t, ok := columnTypes[f.Type]; ok {
		return t, nil
	}
	return "", warehouse.Unimplemented("field type", string(f.Type))
}

// fieldTypeFromColumn maps an introspected MySQL column type back to a field
// type. The mapping is lossy for values stored as JSON documents; those come
// back as plain json fields.
func fieldTypeFromColumn(colType string) models.FieldType {
	base := strings.ToLower(colType)
	args := ""
	if idx := strings.IndexByte(base, '('); idx >= 0 {
		args = base[idx:]
		base = base[:idx]
	}
	switch base {
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext", "enum", "set":
		return models.FieldTypeString
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob":
		return models.FieldTypeBytes
	case "tinyint":
		if args == "(1)" {
			return models.FieldTypeBoolean
		}
		return models.FieldTypeInteger
	case "smallint", "mediumint", "int", "integer", "bigint":
		return models.FieldTypeInteger
	case "float", "double", "real":
		return models.FieldTypeFloat
	case "decimal", "numeric":
		if args == "(65,30)" {
			return models.FieldTypeBigNumeric
		}
		return models.FieldTypeNumeric
	case "timestamp":
		return models.FieldTypeTimestamp
	case "date":
		return models.FieldTypeDate
	case "time":
		return models.FieldTypeTime
	case "datetime":
		return models.FieldTypeDateTime
	case "geometry", "point", "linestring", "polygon":
		return models.FieldTypeGeography
	case "json":
		return models.FieldTypeJSON
	default:
		return models.FieldTypeString
	}
}
