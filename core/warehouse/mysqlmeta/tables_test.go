package mysqlmeta

import (
	"context"
	"regexp"
	"testing"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTables(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_name FROM information_schema.tables WHERE table_schema = ?")).
		WithArgs("warehouse").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("events").
			AddRow("users"))

	ids, err := store.ListTables(context.Background(), "warehouse")
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "users"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTable_Standard(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_type, table_comment FROM information_schema.tables WHERE table_schema = ? AND table_name = ?")).
		WithArgs("warehouse", "events").
		WillReturnRows(sqlmock.NewRows([]string{"table_type", "table_comment"}).
			AddRow("BASE TABLE", "event stream"))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW FULL COLUMNS FROM `warehouse`.`events`")).
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Collation", "Null", "Key", "Default", "Extra", "Privileges", "Comment"}).
			AddRow("id", "bigint", nil, "NO", "PRI", nil, "", "", "").
			AddRow("payload", "json", nil, "YES", "", nil, "", "", "raw event").
			AddRow("flag", "tinyint(1)", nil, "YES", "", "1", "", "", ""))

	info, err := store.GetTable(context.Background(), "warehouse", "events")
	require.NoError(t, err)
	assert.Equal(t, "events", info.ID)
	assert.Equal(t, "standard", info.Kind)
	require.NotNil(t, info.Description)
	assert.Equal(t, "event stream", *info.Description)

	require.Len(t, info.Fields, 3)
	assert.Equal(t, models.Field{Name: "id", Type: models.FieldTypeInteger, Mode: models.ModeRequired}, info.Fields[0])
	assert.Equal(t, models.FieldTypeJSON, info.Fields[1].Type)
	assert.Equal(t, models.ModeNullable, info.Fields[1].Mode)
	assert.Equal(t, "raw event", *info.Fields[1].Description)
	assert.Equal(t, models.FieldTypeBoolean, info.Fields[2].Type)
	assert.Equal(t, "1", *info.Fields[2].Default)

	require.NotNil(t, info.Constraints)
	assert.Equal(t, []string{"id"}, info.Constraints.PrimaryKeys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTable_View(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_type, table_comment FROM information_schema.tables WHERE table_schema = ? AND table_name = ?")).
		WithArgs("warehouse", "daily").
		WillReturnRows(sqlmock.NewRows([]string{"table_type", "table_comment"}).
			AddRow("VIEW", ""))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT view_definition FROM information_schema.views WHERE table_schema = ? AND table_name = ?")).
		WithArgs("warehouse", "daily").
		WillReturnRows(sqlmock.NewRows([]string{"view_definition"}).
			AddRow("select date(ts), count(*) from events group by 1"))

	info, err := store.GetTable(context.Background(), "warehouse", "daily")
	require.NoError(t, err)
	assert.Equal(t, "view", info.Kind)
	require.NotNil(t, info.ViewQuery)
	assert.Contains(t, *info.ViewQuery, "group by 1")
	assert.Nil(t, info.Fields)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTable_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_type, table_comment FROM information_schema.tables WHERE table_schema = ? AND table_name = ?")).
		WithArgs("warehouse", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"table_type", "table_comment"}))

	_, err := store.GetTable(context.Background(), "warehouse", "missing")
	require.ErrorIs(t, err, warehouse.ErrTableNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTableSchema_AddsOnlyMissingColumns(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW FULL COLUMNS FROM `warehouse`.`events`")).
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Collation", "Null", "Key", "Default", "Extra", "Privileges", "Comment"}).
			AddRow("id", "bigint", nil, "NO", "PRI", nil, "", "", ""))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE `warehouse`.`events` ADD COLUMN `payload` json NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	fields := []models.Field{
		{Name: "id", Type: models.FieldTypeInteger, Mode: models.ModeRequired},
		{Name: "payload", Type: models.FieldTypeJSON, Mode: models.ModeNullable},
	}
	err := store.UpdateTableSchema(context.Background(), "warehouse", "events", fields)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTableDDL(t *testing.T) {
	spec := models.Table{
		ID:          "orders",
		Type:        models.TableStandard,
		Description: models.StrPtr("order facts"),
		Fields: []models.Field{
			{Name: "id", Type: models.FieldTypeInteger, Mode: models.ModeRequired},
			{Name: "note", Type: models.FieldTypeString, Mode: models.ModeNullable, Description: models.StrPtr("buyer's note")},
			{Name: "tags", Type: models.FieldTypeString, Mode: models.ModeRepeated},
		},
		Constraints: &models.Constraints{
			PrimaryKeys: []string{"id"},
			ForeignKeys: []models.ForeignKey{{
				ReferencedTable:  "users",
				ColumnReferences: []models.ColumnReference{{ReferencingColumn: "user_id", ReferencedColumn: "id"}},
			}},
		},
	}

	ddl, err := createTableDDL("warehouse", spec)
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE `warehouse`.`orders`")
	assert.Contains(t, ddl, "`id` bigint NOT NULL")
	assert.Contains(t, ddl, "`note` text NULL COMMENT 'buyer''s note'")
	assert.Contains(t, ddl, "`tags` json NULL")
	assert.Contains(t, ddl, "PRIMARY KEY (`id`)")
	assert.Contains(t, ddl, "FOREIGN KEY (`user_id`) REFERENCES `users` (`id`)")
	assert.Contains(t, ddl, "COMMENT = 'order facts'")
}

func TestCreateTable_View(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE VIEW `warehouse`.`daily` AS select 1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	spec := models.Table{ID: "daily", Type: models.TableView, ViewQuery: models.StrPtr("select 1")}
	err := store.CreateTable(context.Background(), "warehouse", spec)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
