package sync

import (
	"testing"

	"ceiba/core/warehouse"
	"ceiba/feature/dataset/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileProperties_RemoteDescriptionWins(t *testing.T) {
	remote := &warehouse.DatasetInfo{Description: models.StrPtr("remote desc")}
	declared := &models.Properties{Description: models.StrPtr("declared desc")}

	got := reconcileProperties(remote, declared)
	require.NotNil(t, got)
	assert.Equal(t, "remote desc", *got.Description)
}

func TestReconcileProperties_DeclaredDescriptionFallback(t *testing.T) {
	declared := &models.Properties{Description: models.StrPtr("declared desc")}

	got := reconcileProperties(&warehouse.DatasetInfo{Description: models.StrPtr("")}, declared)
	require.NotNil(t, got)
	assert.Equal(t, "declared desc", *got.Description)

	got = reconcileProperties(&warehouse.DatasetInfo{}, declared)
	require.NotNil(t, got)
	assert.Equal(t, "declared desc", *got.Description)
}

func TestReconcileProperties_LabelOverlay(t *testing.T) {
	remote := &warehouse.DatasetInfo{Labels: map[string]string{
		"owner":              "data-team",
		"env":                "staging",
		"ceiba_dataset_hash": "abc",
	}}
	declared := &models.Properties{Labels: map[string]string{
		"env":  "prod",
		"tier": "gold",
	}}

	got := reconcileProperties(remote, declared)
	require.NotNil(t, got)
	assert.Equal(t, map[string]string{
		"owner": "data-team",
		"env":   "staging", // remote wins on collision
		"tier":  "gold",
	}, got.Labels)
}

func TestReconcileProperties_EmptyMergeIsNil(t *testing.T) {
	assert.Nil(t, reconcileProperties(nil, nil))
	assert.Nil(t, reconcileProperties(&warehouse.DatasetInfo{}, nil))

	// Reserved-only remote labels count as empty.
	remote := &warehouse.DatasetInfo{Labels: map[string]string{"ceiba_props_hash": "x"}}
	assert.Nil(t, reconcileProperties(remote, nil))
}
