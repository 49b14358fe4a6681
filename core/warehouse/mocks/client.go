package mocks

import (
	"context"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of warehouse.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetDataset(ctx context.Context, datasetID string) (*warehouse.DatasetInfo, error) {
	args := m.Called(ctx, datasetID)
	if info, ok := args.Get(0).(*warehouse.DatasetInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateDataset(ctx context.Context, spec models.Dataset) error {
	args := m.Called(ctx, spec)
	return args.Error(0)
}

func (m *Client) UpdateDataset(ctx context.Context, datasetID string, labels map[string]string, description *string) error {
	args := m.Called(ctx, datasetID, labels, description)
	return args.Error(0)
}

func (m *Client) ListTables(ctx context.Context, datasetID string) ([]string, error) {
	args := m.Called(ctx, datasetID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetTable(ctx context.Context, datasetID, tableID string) (*warehouse.TableInfo, error) {
	args := m.Called(ctx, datasetID, tableID)
	if info, ok := args.Get(0).(*warehouse.TableInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateTable(ctx context.Context, datasetID string, spec models.Table) error {
	args := m.Called(ctx, datasetID, spec)
	return args.Error(0)
}

func (m *Client) UpdateTableSchema(ctx context.Context, datasetID, tableID string, fields []models.Field) error {
	args := m.Called(ctx, datasetID, tableID, fields)
	return args.Error(0)
}

func (m *Client) InsertRows(ctx context.Context, datasetID, tableID string, rows []map[string]any) error {
	args := m.Called(ctx, datasetID, tableID, rows)
	return args.Error(0)
}

func (m *Client) Query(ctx context.Context, query string) ([]map[string]any, error) {
	args := m.Called(ctx, query)
	if rows, ok := args.Get(0).([]map[string]any); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}
