package sync

import (
	"context"
	"fmt"
	"sort"

	"ceiba/core/diff"
	"ceiba/core/hash"
	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"go.uber.org/zap"
)

// tableStats counts what the table orchestrator did during one sync.
type tableStats struct {
	Created    int
	Reconciled int
	Adopted    int
	CacheHits  int
}

// syncTables classifies the declared tables against the remote table-id set
// and drives creation, reconciliation and adoption. When filter is non-nil
// both sides are restricted to the given ids. The returned sequence is
// novel + common + untracked, sorted by table id for deterministic results.
func (s *Syncer) syncTables(
	ctx context.Context,
	datasetID string,
	declared []models.Table,
	remoteIDs []string,
	cache *Cache,
	filter []string,
) ([]models.Table, *tableStats, error) {
	byID := make(map[string]models.Table, len(declared))
	declaredIDs := make([]string, 0, len(declared))
	for _, t := range declared {
		byID[t.ID] = t
		declaredIDs = append(declaredIDs, t.ID)
	}

	if filter != nil {
		allowed := make(map[string]struct{}, len(filter))
		for _, id := range filter {
			allowed[id] = struct{}{}
		}
		declaredIDs = keepIDs(declaredIDs, allowed)
		remoteIDs = keepIDs(remoteIDs, allowed)
	}

	cls := diff.Classify(declaredIDs, remoteIDs)
	stats := &tableStats{}
	out := make([]models.Table, 0, len(cls.Novel)+len(cls.Common)+len(cls.Untracked))

	for _, id := range cls.Novel {
		spec := byID[id]
		if err := s.createTable(ctx, datasetID, spec); err != nil {
			return nil, nil, err
		}
		stats.Created++
		// The declared spec is the post-create truth.
		out = append(out, spec.Clone())
	}

	for _, id := range cls.Common {
		spec := byID[id]
		if cached := cache.TableHash(id); cached != "" && cached == hash.Table(spec) {
			// Cache hit: the declared spec has not changed since the last
			// sync, so remote inspection is skipped entirely.
			stats.CacheHits++
			out = append(out, spec.Clone())
			continue
		}
		reconciled, err := s.reconcileTable(ctx, datasetID, spec)
		if err != nil {
			return nil, nil, err
		}
		stats.Reconciled++
		out = append(out, reconciled)
	}

	for _, id := range cls.Untracked {
		adopted, err := s.adoptTable(ctx, datasetID, id)
		if err != nil {
			return nil, nil, err
		}
		stats.Adopted++
		out = append(out, adopted)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, stats, nil
}

// createTable builds the type-appropriate remote definition for a novel
// table and creates it. Standard tables ship schema plus constraints, view
// kinds ship their query text; any other kind is rejected as unimplemented
// rather than silently degraded.
func (s *Syncer) createTable(ctx context.Context, datasetID string, spec models.Table) error {
	switch {
	case spec.Type == models.TableStandard:
		if len(spec.Fields) == 0 {
			return fmt.Errorf("create table %s.%s: standard table declares no fields", datasetID, spec.ID)
		}
	case spec.Type.IsView():
		if spec.ViewQuery == nil || *spec.ViewQuery == "" {
			return fmt.Errorf("create table %s.%s: view declares no query", datasetID, spec.ID)
		}
	default:
		return fmt.Errorf("create table %s.%s: %w", datasetID, spec.ID,
			warehouse.Unimplemented("table type on creation", string(spec.Type)))
	}

	if err := s.client.CreateTable(ctx, datasetID, spec); err != nil {
		return fmt.Errorf("create table %s.%s: %w", datasetID, spec.ID, err)
	}
	s.log.Info("created table",
		zap.String("dataset", datasetID),
		zap.String("table", spec.ID),
		zap.String("type", string(spec.Type)),
	)
	return nil
}

// adoptTable fetches a remote table that is absent from the declaration and
// translates it into a table spec, unmodified. Untracked tables are never
// deleted; they become part of the returned dataset.
func (s *Syncer) adoptTable(ctx context.Context, datasetID, tableID string) (models.Table, error) {
	info, err := s.client.GetTable(ctx, datasetID, tableID)
	if err != nil {
		return models.Table{}, fmt.Errorf("adopt table %s.%s: %w", datasetID, tableID, err)
	}
	spec, err := tableFromRemote(info)
	if err != nil {
		return models.Table{}, fmt.Errorf("adopt table %s.%s: %w", datasetID, tableID, err)
	}
	s.log.Info("adopted untracked remote table",
		zap.String("dataset", datasetID),
		zap.String("table", tableID),
		zap.String("type", string(spec.Type)),
	)
	return spec, nil
}

// tableFromRemote dispatches on the remote category keyword and builds the
// corresponding table spec. A category outside the six recognized kinds is
// fatal, and foreign-key recovery from remote constraints is not
// implemented.
func tableFromRemote(info *warehouse.TableInfo) (models.Table, error) {
	kind := models.TableType(info.Kind)
	if !kind.IsValid() {
		return models.Table{}, warehouse.Unimplemented("remote table type", info.Kind)
	}
	if info.Constraints != nil && len(info.Constraints.ForeignKeys) > 0 {
		return models.Table{}, warehouse.Unimplemented("foreign key recovery", info.ID)
	}

	out := models.Table{ID: info.ID, Type: kind}
	if info.Description != nil {
		out.Description = models.StrPtr(*info.Description)
	}
	switch {
	case kind.IsView():
		if info.ViewQuery != nil {
			out.ViewQuery = models.StrPtr(*info.ViewQuery)
		}
	default:
		out.Fields = normalizeFields(info.Fields)
		if info.Constraints != nil && len(info.Constraints.PrimaryKeys) > 0 {
			out.Constraints = &models.Constraints{
				PrimaryKeys: append([]string(nil), info.Constraints.PrimaryKeys...),
			}
		}
	}
	return out, nil
}

func keepIDs(ids []string, allowed map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
