package mysqlmeta

import (
	"context"
	"errors"
	"fmt"

	"ceiba/core/utils"
	"ceiba/core/warehouse"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// InsertRows appends rows to a table one by one, collecting per-row
// failures. Rows that fail do not stop the rest; the aggregate error keys
// each failure by row index and carries the offending payload.
func (s *Store) InsertRows(ctx context.Context, datasetID, tableID string, rows []map[string]any) error {
	var failed []warehouse.RowError
	target := fmt.Sprintf("%s.%s", datasetID, tableID)
	// Each row is a single statement; no wrapping transaction.
	db := s.db.WithContext(ctx).Session(&gorm.Session{SkipDefaultTransaction: true})
	for i, row := range rows {
		if err := db.Table(target).Create(row).Error; err != nil {
			failed = append(failed, warehouse.RowError{
				Index:  i,
				Row:    row,
				Reason: err.Error(),
			})
		}
	}
	if len(failed) > 0 {
		return &warehouse.RowInsertError{Rows: failed}
	}
	return nil
}

// Query runs an ad-hoc query and returns its rows as generic maps. MySQL
// errors carry a server error number and message, so they are surfaced as a
// structured QueryError; anything without structured detail passes through
// unmodified.
func (s *Store) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, queryError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, queryError(err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, queryError(err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = utils.NormalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err)
	}
	return out, nil
}

// queryError converts a structured MySQL server error into a QueryError and
// re-raises everything else unmodified.
func queryError(err error) error {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return &warehouse.QueryError{Details: []warehouse.QueryDetail{{
			Message: myErr.Message,
			Reason:  fmt.Sprintf("mysql_error_%d", myErr.Number),
		}}}
	}
	return err
}
