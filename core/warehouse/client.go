package warehouse

import (
	"context"

	"ceiba/feature/dataset/models"
)

// DatasetInfo is the remote dataset resource as reported by the store. The
// label map carries both user labels and system-owned reserved entries.
type DatasetInfo struct {
	ID          string
	Project     string
	Location    string
	Description *string
	Labels      map[string]string
}

// TableInfo is the remote table resource. Kind is the store's raw category
// keyword; the sync engine dispatches on it and rejects categories outside
// the recognized set.
type TableInfo struct {
	ID          string
	Kind        string
	Description *string
	Fields      []models.Field
	ViewQuery   *string
	Constraints *models.Constraints
}

// Client is the remote-store adapter. Every method blocks until the remote
// call completes; cancellation and timeouts travel through ctx.
type Client interface {
	// GetDataset fetches the dataset resource. Returns ErrDatasetNotFound
	// (possibly wrapped) when the dataset does not exist.
	GetDataset(ctx context.Context, datasetID string) (*DatasetInfo, error)

	// CreateDataset creates the dataset with the declared location,
	// description and user labels.
	CreateDataset(ctx context.Context, spec models.Dataset) error

	// UpdateDataset replaces the dataset's label map and description in a
	// single call.
	UpdateDataset(ctx context.Context, datasetID string, labels map[string]string, description *string) error

	// ListTables returns the ids of all tables in the dataset.
	ListTables(ctx context.Context, datasetID string) ([]string, error)

	// GetTable fetches a table's full remote definition. Returns
	// ErrTableNotFound (possibly wrapped) when the table does not exist.
	GetTable(ctx context.Context, datasetID, tableID string) (*TableInfo, error)

	// CreateTable creates a table from the declared spec: schema and
	// constraints for standard tables, query text for views.
	CreateTable(ctx context.Context, datasetID string, spec models.Table) error

	// UpdateTableSchema replaces the table's field set. Callers only ever
	// pass supersets of the current remote fields; the store never sees a
	// narrowing update.
	UpdateTableSchema(ctx context.Context, datasetID, tableID string, fields []models.Field) error

	// InsertRows appends rows to a table. Partial success is possible; the
	// returned error is a *RowInsertError keyed by row index.
	InsertRows(ctx context.Context, datasetID, tableID string, rows []map[string]any) error

	// Query runs an ad-hoc query and returns the result rows. Structured
	// remote failures come back as a *QueryError; failures without
	// structured detail pass through unmodified.
	Query(ctx context.Context, query string) ([]map[string]any, error)
}
