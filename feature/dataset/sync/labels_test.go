package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReserved(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   map[string]string
	}{
		{"nil input", nil, nil},
		{"only reserved", map[string]string{"ceiba_dataset_hash": "abc"}, nil},
		{
			"mixed",
			map[string]string{"env": "prod", "ceiba_props_hash": "abc", "ceiba_table_hash_events": "def"},
			map[string]string{"env": "prod"},
		},
		{
			"prefix match is exact",
			map[string]string{"ceiba": "kept", "ceiba_x": "dropped"},
			map[string]string{"ceiba": "kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripReserved(tt.labels))
		})
	}
}

func TestCacheFromLabels(t *testing.T) {
	labels := map[string]string{
		"env":                       "prod",
		"ceiba_dataset_hash":        "d1",
		"ceiba_dataset_tables_hash": "t1",
		"ceiba_props_hash":          "p1",
		"ceiba_table_hash_events":   "e1",
	}

	c := CacheFromLabels(labels)
	assert.Equal(t, "d1", c.DatasetHash())
	assert.Equal(t, "t1", c.TablesHash())
	assert.Equal(t, "p1", c.PropsHash())
	assert.Equal(t, "e1", c.TableHash("events"))
	assert.Equal(t, "e1", c.TableHash("Events"))
	assert.Equal(t, "", c.TableHash("users"))

	// User labels never leak into the cache.
	assert.NotContains(t, c.Labels(), "env")
}

func TestCache_RoundTrip(t *testing.T) {
	c := NewCache()
	c.SetDatasetHash("d")
	c.SetTablesHash("t")
	c.SetPropsHash("p")
	c.SetTableHash("Orders", "o")

	got := c.Labels()
	assert.Equal(t, map[string]string{
		"ceiba_dataset_hash":        "d",
		"ceiba_dataset_tables_hash": "t",
		"ceiba_props_hash":          "p",
		"ceiba_table_hash_orders":   "o",
	}, got)

	// Round trip through a remote label map.
	back := CacheFromLabels(got)
	assert.Equal(t, "d", back.DatasetHash())
	assert.Equal(t, "o", back.TableHash("orders"))
}

func TestMergeLabels(t *testing.T) {
	c := NewCache()
	c.SetDatasetHash("d")

	got := mergeLabels(map[string]string{"env": "prod"}, c)
	assert.Equal(t, map[string]string{
		"env":                "prod",
		"ceiba_dataset_hash": "d",
	}, got)

	// Nil user labels still produce the reserved entries.
	assert.Equal(t, map[string]string{"ceiba_dataset_hash": "d"}, mergeLabels(nil, c))
}
