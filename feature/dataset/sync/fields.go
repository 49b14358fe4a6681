package sync

import (
	"context"
	"fmt"

	"ceiba/core/diff"
	"ceiba/core/hash"
	"ceiba/feature/dataset/models"

	"go.uber.org/zap"
)

// reconcileTable brings one table known to exist both locally and remotely
// into agreement, accretively. It fetches the actual remote definition,
// detects drift, appends missing declared fields through a single sanitized
// schema update, and returns the table spec reflecting the post-sync remote
// truth. Remote-only fields are absorbed into the result and never removed.
func (s *Syncer) reconcileTable(ctx context.Context, datasetID string, declared models.Table) (models.Table, error) {
	info, err := s.client.GetTable(ctx, datasetID, declared.ID)
	if err != nil {
		return models.Table{}, fmt.Errorf("get table %s.%s: %w", datasetID, declared.ID, err)
	}

	if declared.Type.IsView() {
		return s.reconcileViewQuery(datasetID, declared, info.ViewQuery), nil
	}
	if declared.Type != models.TableStandard {
		// External, snapshot and model tables carry no reconcilable schema.
		return declared.Clone(), nil
	}

	declaredFields := normalizeFields(declared.Fields)
	actualFields := normalizeFields(info.Fields)

	cls := classifyFields(declaredFields, actualFields)
	if cls.Equal() {
		return declared.Clone(), nil
	}

	// Fields present remotely but absent from the declaration are orphans:
	// warned about, absorbed into the output, never dropped.
	for _, f := range cls.Untracked {
		s.log.Warn("remote field not present in declaration; keeping it",
			zap.String("dataset", datasetID),
			zap.String("table", declared.ID),
			zap.String("field", f.Name),
		)
	}

	out := declared.Clone()
	if len(cls.Novel) == 0 {
		// Nothing to push; the remote field set is already a superset.
		out.Fields = actualFields
		return out, nil
	}

	appended := make([]models.Field, len(cls.Novel))
	for i, f := range cls.Novel {
		appended[i] = sanitizeAppend(f, s.log, datasetID, declared.ID)
	}

	newSchema := append(append([]models.Field(nil), actualFields...), appended...)
	if err := s.client.UpdateTableSchema(ctx, datasetID, declared.ID, newSchema); err != nil {
		return models.Table{}, fmt.Errorf("update schema of %s.%s: %w", datasetID, declared.ID, err)
	}
	s.log.Info("appended fields",
		zap.String("dataset", datasetID),
		zap.String("table", declared.ID),
		zap.Int("count", len(appended)),
	)

	out.Fields = newSchema
	return out, nil
}

// reconcileViewQuery handles drift for view tables: the remote query text is
// authoritative. A declared edit is never pushed; the drift is logged and
// the remote text adopted into the returned spec.
func (s *Syncer) reconcileViewQuery(datasetID string, declared models.Table, remoteQuery *string) models.Table {
	out := declared.Clone()
	declaredQuery := ""
	if declared.ViewQuery != nil {
		declaredQuery = *declared.ViewQuery
	}
	if remoteQuery == nil || *remoteQuery == declaredQuery {
		return out
	}
	s.log.Warn("view query drift; remote query wins",
		zap.String("dataset", datasetID),
		zap.String("table", declared.ID),
	)
	out.ViewQuery = models.StrPtr(*remoteQuery)
	return out
}

// sanitizeAppend prepares a declared field for an additive schema update. An
// existing table cannot gain a new required or defaulted column, so required
// is downgraded to nullable and any default expression is dropped.
//
// A field downgraded here stays nullable remotely while the declaration may
// keep saying required, so it shows up as drift on every later sync. Callers
// should treat the returned post-sync spec as authoritative instead of
// re-declaring required.
func sanitizeAppend(f models.Field, log *zap.Logger, datasetID, tableID string) models.Field {
	out := f.Clone()
	if out.Mode == models.ModeRequired {
		log.Warn("downgrading appended field to nullable",
			zap.String("dataset", datasetID),
			zap.String("table", tableID),
			zap.String("field", out.Name),
		)
		out.Mode = models.ModeNullable
	}
	if out.Default != nil {
		log.Warn("dropping default expression of appended field",
			zap.String("dataset", datasetID),
			zap.String("table", tableID),
			zap.String("field", out.Name),
		)
		out.Default = nil
	}
	return out
}

// classifyFields runs the three-way set classification over whole-field
// values. Identity is the canonical content digest of the field, so any
// attribute difference makes two same-named fields distinct; nested
// structural fields are part of the digest and therefore compared
// atomically.
func classifyFields(declared, actual []models.Field) diff.Classification[models.Field] {
	declKeys := make([]string, len(declared))
	byKey := make(map[string]models.Field, len(declared)+len(actual))
	for i, f := range declared {
		k := hash.Field(f)
		declKeys[i] = k
		byKey[k] = f
	}
	actKeys := make([]string, len(actual))
	for i, f := range actual {
		k := hash.Field(f)
		actKeys[i] = k
		byKey[k] = f
	}

	keyCls := diff.Classify(declKeys, actKeys)
	var out diff.Classification[models.Field]
	for _, k := range keyCls.Novel {
		out.Novel = append(out.Novel, byKey[k])
	}
	for _, k := range keyCls.Untracked {
		out.Untracked = append(out.Untracked, byKey[k])
	}
	for _, k := range keyCls.Common {
		out.Common = append(out.Common, byKey[k])
	}
	return out
}

// normalizeFields defaults absent modes to nullable so that wire-optional
// modes compare consistently.
func normalizeFields(fields []models.Field) []models.Field {
	out := make([]models.Field, len(fields))
	for i, f := range fields {
		out[i] = f.Normalized()
	}
	return out
}
