package dataset

import (
	"context"
	"fmt"
	"testing"

	"ceiba/core/hash"
	storagemocks "ceiba/core/storage/mocks"
	"ceiba/core/warehouse"
	warehousemocks "ceiba/core/warehouse/mocks"
	"ceiba/feature/dataset/archive"
	"ceiba/feature/dataset/models"
	"ceiba/feature/dataset/sync"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serviceSpec() models.Dataset {
	return models.Dataset{
		Project:  "analytics",
		Location: "EU",
		ID:       "warehouse",
		Tables: []models.Table{{
			ID: "events", Type: models.TableStandard,
			Fields: []models.Field{{Name: "id", Type: models.FieldTypeInteger, Mode: models.ModeRequired}},
		}},
	}
}

func TestService_NoopSkipsArchive(t *testing.T) {
	wh := new(warehousemocks.Client)
	st := new(storagemocks.Client)
	spec := serviceSpec()

	wh.On("GetDataset", mock.Anything, "warehouse").Return(&warehouse.DatasetInfo{
		ID:     "warehouse",
		Labels: map[string]string{"ceiba_dataset_hash": hash.Dataset(spec)},
	}, nil)

	log := zap.NewNop()
	svc := NewService(sync.NewSyncer(wh, log), archive.New(st, "ceiba-specs", log), log)

	out, err := svc.Sync(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, sync.StateNoop, out.Result.State)
	assert.Empty(t, out.SnapshotObject)
	assert.NotEmpty(t, out.RunID)

	st.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ArchiveFailureIsNotFatal(t *testing.T) {
	wh := new(warehousemocks.Client)
	st := new(storagemocks.Client)
	spec := serviceSpec()

	wh.On("GetDataset", mock.Anything, "warehouse").Return(nil, warehouse.ErrDatasetNotFound)
	wh.On("CreateDataset", mock.Anything, mock.Anything).Return(nil)
	wh.On("CreateTable", mock.Anything, "warehouse", mock.Anything).Return(nil)
	wh.On("UpdateDataset", mock.Anything, "warehouse", mock.Anything, mock.Anything).Return(nil)

	st.On("BucketExists", mock.Anything, "ceiba-specs").Return(false, fmt.Errorf("storage down"))

	log := zap.NewNop()
	svc := NewService(sync.NewSyncer(wh, log), archive.New(st, "ceiba-specs", log), log)

	out, err := svc.Sync(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, sync.StateCreated, out.Result.State)
	assert.Empty(t, out.SnapshotObject)
}

func TestService_ArchivesPostSyncSpec(t *testing.T) {
	wh := new(warehousemocks.Client)
	st := new(storagemocks.Client)
	spec := serviceSpec()

	wh.On("GetDataset", mock.Anything, "warehouse").Return(nil, warehouse.ErrDatasetNotFound)
	wh.On("CreateDataset", mock.Anything, mock.Anything).Return(nil)
	wh.On("CreateTable", mock.Anything, "warehouse", mock.Anything).Return(nil)
	wh.On("UpdateDataset", mock.Anything, "warehouse", mock.Anything, mock.Anything).Return(nil)

	st.On("BucketExists", mock.Anything, "ceiba-specs").Return(true, nil)
	st.On("PutObject", mock.Anything, "ceiba-specs", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	log := zap.NewNop()
	svc := NewService(sync.NewSyncer(wh, log), archive.New(st, "ceiba-specs", log), log)

	out, err := svc.Sync(context.Background(), spec)
	require.NoError(t, err)
	assert.Contains(t, out.SnapshotObject, "specs/analytics/warehouse/")
	assert.Contains(t, out.SnapshotObject, out.RunID)
}

func TestService_NilArchiver(t *testing.T) {
	wh := new(warehousemocks.Client)
	spec := serviceSpec()

	wh.On("GetDataset", mock.Anything, "warehouse").Return(nil, warehouse.ErrDatasetNotFound)
	wh.On("CreateDataset", mock.Anything, mock.Anything).Return(nil)
	wh.On("CreateTable", mock.Anything, "warehouse", mock.Anything).Return(nil)
	wh.On("UpdateDataset", mock.Anything, "warehouse", mock.Anything, mock.Anything).Return(nil)

	log := zap.NewNop()
	svc := NewService(sync.NewSyncer(wh, log), nil, log)

	out, err := svc.Sync(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, out.SnapshotObject)
}
