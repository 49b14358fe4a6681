package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"ceiba/core/storage/mocks"
	"ceiba/feature/dataset/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSpec() models.Dataset {
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

func TestStore_UploadsSnapshot(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "ceiba-specs", zap.NewNop())

	client.On("BucketExists", mock.Anything, "ceiba-specs").Return(true, nil)

	var uploaded []byte
	client.On("PutObject", mock.Anything, "ceiba-specs", "specs/analytics/warehouse/run-1.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			reader := args.Get(3).(io.Reader)
			uploaded, _ = io.ReadAll(reader)
		}).
		Return(minio.UploadInfo{}, nil)

	object, err := a.Store(context.Background(), testSpec(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "specs/analytics/warehouse/run-1.json", object)

	// The snapshot round-trips back to the spec.
	var got models.Dataset
	require.NoError(t, json.Unmarshal(uploaded, &got))
	assert.Equal(t, testSpec(), got)

	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestStore_CreatesMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "ceiba-specs", zap.NewNop())

	client.On("BucketExists", mock.Anything, "ceiba-specs").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "ceiba-specs", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "ceiba-specs", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	_, err := a.Store(context.Background(), testSpec(), "run-2")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStore_SurfacesUploadFailure(t *testing.T) {
	client := new(mocks.Client)
	a := New(client, "ceiba-specs", zap.NewNop())

	client.On("BucketExists", mock.Anything, "ceiba-specs").Return(true, nil)
	client.On("PutObject", mock.Anything, "ceiba-specs", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("access denied"))

	_, err := a.Store(context.Background(), testSpec(), "run-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
