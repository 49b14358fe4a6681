package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ceiba/core/hash"
	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"go.uber.org/zap"
)

// State names the path the orchestrator took for one invocation.
type State string

const (
	// StateCreated: the dataset did not exist and was created from scratch.
	StateCreated State = "created"
	// StateNoop: the cached dataset hash matched the declaration; nothing
	// was written.
	StateNoop State = "noop"
	// StateFull: the table sequence drifted; tables and properties were
	// reconciled.
	StateFull State = "full"
	// StateProperties: only properties drifted; the table orchestrator was
	// skipped.
	StateProperties State = "properties"
	// StatePartial: a subset-restricted tables-only sync.
	StatePartial State = "partial"
)

// Result reports what one sync invocation did.
type Result struct {
	State            State `json:"state"`
	TablesCreated    int   `json:"tables_created"`
	TablesReconciled int   `json:"tables_reconciled"`
	TablesAdopted    int   `json:"tables_adopted"`
	CacheHits        int   `json:"cache_hits"`
}

// Syncer drives reconciliation of declared dataset specs against the remote
// store. It is stateless between invocations; the only persisted memory is
// what it writes into reserved dataset labels.
type Syncer struct {
	client warehouse.Client
	log    *zap.Logger
}

// NewSyncer creates a sync engine over the given remote-store adapter.
func NewSyncer(client warehouse.Client, log *zap.Logger) *Syncer {
	return &Syncer{client: client, log: log}
}

// Sync reconciles the declared dataset spec against the remote store and
// returns the post-sync spec: the declaration enriched with everything
// discovered remotely. The caller's declaration is never mutated. Repeated
// invocation with an unchanged declaration issues zero remote writes.
func (s *Syncer) Sync(ctx context.Context, declared models.Dataset) (models.Dataset, *Result, error) {
	if err := declared.Validate(); err != nil {
		return models.Dataset{}, nil, err
	}
	spec := sanitizeSpec(declared)

	info, err := s.client.GetDataset(ctx, spec.ID)
	switch {
	case errors.Is(err, warehouse.ErrDatasetNotFound):
		return s.createDataset(ctx, spec)
	case err != nil:
		return models.Dataset{}, nil, fmt.Errorf("get dataset %s: %w", spec.ID, err)
	}

	cache := CacheFromLabels(info.Labels)
	if cache.DatasetHash() == hash.Dataset(spec) {
		s.log.Info("dataset unchanged; skipping sync", zap.String("dataset", spec.ID))
		return spec, &Result{State: StateNoop}, nil
	}

	if cache.TablesHash() != hash.Tables(spec.Tables) {
		return s.fullSync(ctx, spec, info, cache)
	}
	return s.propertiesSync(ctx, spec, info)
}

// SyncTables performs a tables-only sync restricted to the given table ids.
// It never creates the dataset and fails when it does not exist. Because it
// knows nothing about tables outside the subset, the aggregate dataset and
// tables hashes are written as invalidated, forcing the next full sync to
// re-derive them.
func (s *Syncer) SyncTables(ctx context.Context, declared models.Dataset, tableIDs []string) (models.Dataset, *Result, error) {
	if err := declared.Validate(); err != nil {
		return models.Dataset{}, nil, err
	}
	if len(tableIDs) == 0 {
		return models.Dataset{}, nil, fmt.Errorf("partial sync of dataset %s: no table ids given", declared.ID)
	}
	spec := sanitizeSpec(declared)

	info, err := s.client.GetDataset(ctx, spec.ID)
	if err != nil {
		return models.Dataset{}, nil, fmt.Errorf("partial sync of dataset %s: %w", spec.ID, err)
	}

	remoteIDs, err := s.client.ListTables(ctx, spec.ID)
	if err != nil {
		return models.Dataset{}, nil, fmt.Errorf("list tables of %s: %w", spec.ID, err)
	}

	cache := CacheFromLabels(info.Labels)
	synced, stats, err := s.syncTables(ctx, spec.ID, spec.Tables, remoteIDs, cache, tableIDs)
	if err != nil {
		return models.Dataset{}, nil, err
	}

	out := spec.Clone()
	out.Tables = mergeTables(spec.Tables, synced)

	// Per-table hashes of the synced subset stay valid; the aggregates do
	// not, since tables outside the subset were never inspected.
	for _, t := range synced {
		cache.SetTableHash(t.ID, hash.Table(t))
	}
	cache.SetDatasetHash(HashInvalidated)
	cache.SetTablesHash(HashInvalidated)

	labels := mergeLabels(StripReserved(info.Labels), cache)
	if err := s.client.UpdateDataset(ctx, spec.ID, labels, info.Description); err != nil {
		return models.Dataset{}, nil, fmt.Errorf("update dataset %s: %w", spec.ID, err)
	}

	return out, statsResult(StatePartial, stats), nil
}

// Status describes the remote dataset and its persisted sync state. It is a
// pure read: nothing is written and no hashes are recomputed.
type Status struct {
	// Exists reports whether the dataset resource is present remotely.
	Exists bool `json:"exists"`
	// Description is the remote dataset description, if any.
	Description *string `json:"description,omitempty"`
	// Labels holds the user labels, reserved entries stripped.
	Labels map[string]string `json:"labels,omitempty"`
	// DatasetHash and TablesHash are the cached aggregate digests as
	// persisted by the last sync, "" when never synced.
	DatasetHash string `json:"dataset_hash,omitempty"`
	TablesHash  string `json:"tables_hash,omitempty"`
	// Invalidated reports that the last write was a partial sync, so the
	// aggregates cannot be trusted until the next full sync.
	Invalidated bool `json:"invalidated"`
	// Tables lists the remote table ids.
	Tables []string `json:"tables,omitempty"`
}

// Status reports the remote dataset's current state and sync cache.
func (s *Syncer) Status(ctx context.Context, datasetID string) (*Status, error) {
	info, err := s.client.GetDataset(ctx, datasetID)
	switch {
	case errors.Is(err, warehouse.ErrDatasetNotFound):
		return &Status{}, nil
	case err != nil:
		return nil, fmt.Errorf("get dataset %s: %w", datasetID, err)
	}

	tables, err := s.client.ListTables(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list tables of %s: %w", datasetID, err)
	}

	cache := CacheFromLabels(info.Labels)
	return &Status{
		Exists:      true,
		Description: info.Description,
		Labels:      StripReserved(info.Labels),
		DatasetHash: cache.DatasetHash(),
		TablesHash:  cache.TablesHash(),
		Invalidated: cache.DatasetHash() == HashInvalidated,
		Tables:      tables,
	}, nil
}

// createDataset handles the NotExist state: create the dataset with the
// declared location and description, create every declared table, and write
// a fresh set of hash labels.
func (s *Syncer) createDataset(ctx context.Context, spec models.Dataset) (models.Dataset, *Result, error) {
	s.log.Info("dataset does not exist; creating",
		zap.String("dataset", spec.ID),
		zap.String("location", spec.Location),
	)
	if err := s.client.CreateDataset(ctx, spec); err != nil {
		return models.Dataset{}, nil, fmt.Errorf("create dataset %s: %w", spec.ID, err)
	}

	// Everything is novel against an empty remote table set.
	tables, stats, err := s.syncTables(ctx, spec.ID, spec.Tables, nil, NewCache(), nil)
	if err != nil {
		return models.Dataset{}, nil, err
	}

	out := spec.Clone()
	out.Tables = tables

	cache := freshCache(out)
	var labels map[string]string
	var description *string
	if out.Properties != nil {
		labels = out.Properties.Labels
		description = out.Properties.Description
	}
	if err := s.client.UpdateDataset(ctx, spec.ID, mergeLabels(labels, cache), description); err != nil {
		return models.Dataset{}, nil, fmt.Errorf("update dataset %s: %w", spec.ID, err)
	}

	return out, statsResult(StateCreated, stats), nil
}

// fullSync handles a drifted table sequence: run the table orchestrator,
// merge properties, recompute every hash level, and issue the single
// consolidated label/description update.
func (s *Syncer) fullSync(ctx context.Context, spec models.Dataset, info *warehouse.DatasetInfo, cache *Cache) (models.Dataset, *Result, error) {
	remoteIDs, err := s.client.ListTables(ctx, spec.ID)
	if err != nil {
		return models.Dataset{}, nil, fmt.Errorf("list tables of %s: %w", spec.ID, err)
	}

	tables, stats, err := s.syncTables(ctx, spec.ID, spec.Tables, remoteIDs, cache, nil)
	if err != nil {
		return models.Dataset{}, nil, err
	}

	out := spec.Clone()
	out.Tables = tables
	out.Properties = reconcileProperties(info, spec.Properties)

	fresh := freshCache(out)
	var labels map[string]string
	var description *string
	if out.Properties != nil {
		labels = out.Properties.Labels
		description = out.Properties.Description
	}
	if err := s.client.UpdateDataset(ctx, spec.ID, mergeLabels(labels, fresh), description); err != nil {
		return models.Dataset{}, nil, fmt.Errorf("update dataset %s: %w", spec.ID, err)
	}

	return out, statsResult(StateFull, stats), nil
}

// propertiesSync handles the case where the table sequence still matches its
// cached hash but the dataset hash does not: only properties drifted, so
// remote table inspection is skipped entirely.
func (s *Syncer) propertiesSync(ctx context.Context, spec models.Dataset, info *warehouse.DatasetInfo) (models.Dataset, *Result, error) {
	s.log.Info("tables unchanged; reconciling properties only", zap.String("dataset", spec.ID))

	out := spec.Clone()
	out.Properties = reconcileProperties(info, spec.Properties)

	// Table hashes are still valid; regenerate them from the declaration
	// together with the new properties and dataset digests.
	fresh := freshCache(out)
	var labels map[string]string
	var description *string
	if out.Properties != nil {
		labels = out.Properties.Labels
		description = out.Properties.Description
	}
	if err := s.client.UpdateDataset(ctx, spec.ID, mergeLabels(labels, fresh), description); err != nil {
		return models.Dataset{}, nil, fmt.Errorf("update dataset %s: %w", spec.ID, err)
	}

	return out, &Result{State: StateProperties}, nil
}

// sanitizeSpec returns a deep copy of the declaration with reserved labels
// stripped, so system-owned entries never flow into digests, comparisons or
// the returned spec. Tables are put into canonical id order: the engine
// sorts its output, so the declared ordering must not leak into the digests
// or a permuted re-declaration would never match its own write-back.
func sanitizeSpec(declared models.Dataset) models.Dataset {
	out := declared.Clone()
	if out.Properties != nil {
		out.Properties.Labels = StripReserved(out.Properties.Labels)
		if out.Properties.Description == nil && len(out.Properties.Labels) == 0 {
			out.Properties = nil
		}
	}
	sort.Slice(out.Tables, func(i, j int) bool { return out.Tables[i].ID < out.Tables[j].ID })
	return out
}

// freshCache regenerates the complete reserved label set for a post-sync
// spec: one digest per table plus the tables, properties and dataset
// aggregates.
func freshCache(spec models.Dataset) *Cache {
	cache := NewCache()
	for _, t := range spec.Tables {
		cache.SetTableHash(t.ID, hash.Table(t))
	}
	cache.SetTablesHash(hash.Tables(spec.Tables))
	cache.SetPropsHash(hash.Properties(spec.Properties))
	cache.SetDatasetHash(hash.Dataset(spec))
	return cache
}

// mergeTables folds subset sync results back into the full declared
// sequence: synced specs replace their declared counterparts, adopted
// remote tables are added, everything else passes through; the result is
// sorted by id.
func mergeTables(declared, synced []models.Table) []models.Table {
	byID := make(map[string]models.Table, len(declared)+len(synced))
	for _, t := range declared {
		byID[t.ID] = t.Clone()
	}
	for _, t := range synced {
		byID[t.ID] = t
	}
	out := make([]models.Table, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func statsResult(state State, stats *tableStats) *Result {
	return &Result{
		State:            state,
		TablesCreated:    stats.Created,
		TablesReconciled: stats.Reconciled,
		TablesAdopted:    stats.Adopted,
		CacheHits:        stats.CacheHits,
	}
}
