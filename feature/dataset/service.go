package dataset

import (
	"context"

	"ceiba/feature/dataset/archive"
	"ceiba/feature/dataset/models"
	"ceiba/feature/dataset/sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs dataset syncs and archives the resulting specs.
type Service struct {
	syncer   *sync.Syncer
	archiver *archive.Archiver
	logger   *zap.Logger
}

// NewService creates a new dataset service. The archiver may be nil when no
// snapshot storage is configured.
func NewService(syncer *sync.Syncer, archiver *archive.Archiver, logger *zap.Logger) *Service {
	return &Service{syncer: syncer, archiver: archiver, logger: logger}
}

// SyncOutcome bundles what one sync run produced.
type SyncOutcome struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`
	// Spec is the post-sync dataset spec, the authoritative state to carry
	// forward into the next declaration.
	Spec models.Dataset `json:"spec"`
	// Result reports which path the engine took and what it did.
	Result *sync.Result `json:"result"`
	// SnapshotObject is the archive object name, empty when archiving is
	// disabled or failed.
	SnapshotObject string `json:"snapshot_object,omitempty"`
}

// Sync reconciles the full declared dataset.
func (s *Service) Sync(ctx context.Context, declared models.Dataset) (*SyncOutcome, error) {
	runID := uuid.NewString()
	spec, result, err := s.syncer.Sync(ctx, declared)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, runID, spec, result), nil
}

// SyncTables reconciles only the given table-id subset.
func (s *Service) SyncTables(ctx context.Context, declared models.Dataset, tableIDs []string) (*SyncOutcome, error) {
	runID := uuid.NewString()
	spec, result, err := s.syncer.SyncTables(ctx, declared, tableIDs)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, runID, spec, result), nil
}

// Status reports the remote dataset's current state without writing.
func (s *Service) Status(ctx context.Context, datasetID string) (*sync.Status, error) {
	return s.syncer.Status(ctx, datasetID)
}

// finish archives the post-sync spec. Archive failures are logged, not
// fatal: the sync itself already converged.
func (s *Service) finish(ctx context.Context, runID string, spec models.Dataset, result *sync.Result) *SyncOutcome {
	out := &SyncOutcome{RunID: runID, Spec: spec, Result: result}
	if s.archiver == nil || result.State == sync.StateNoop {
		return out
	}
	object, err := s.archiver.Store(ctx, spec, runID)
	if err != nil {
		s.logger.Warn("failed to archive spec snapshot",
			zap.String("dataset", spec.ID),
			zap.String("run_id", runID),
			zap.Error(err),
		)
		return out
	}
	out.SnapshotObject = object
	return out
}
