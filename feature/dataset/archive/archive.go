// Package archive persists post-sync spec snapshots to object storage.
// Snapshots are write-once audit records; nothing here deletes or
// overwrites.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"ceiba/core/storage"
	"ceiba/feature/dataset/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver writes spec snapshots into a bucket.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// New creates an archiver over the given storage client.
func New(client storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, logger: logger}
}

// Store marshals the post-sync spec and uploads it under
// specs/<project>/<dataset>/<runID>.json. Returns the object name.
func (a *Archiver) Store(ctx context.Context, spec models.Dataset, runID string) (string, error) {
	payload, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal spec snapshot: %w", err)
	}

	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	object := fmt.Sprintf("specs/%s/%s/%s.json", spec.Project, spec.ID, runID)
	_, err = a.client.PutObject(ctx, a.bucket, object,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload spec snapshot %s: %w", object, err)
	}

	a.logger.Info("archived spec snapshot",
		zap.String("dataset", spec.ID),
		zap.String("object", object),
	)
	return object, nil
}
