package sync

import "strings"

// ReservedPrefix marks label keys owned by the sync engine. Any key carrying
// the prefix is stripped before hashing, comparison or exposure to the
// caller, and regenerated on every write.
const ReservedPrefix = "ceiba_"

// Reserved label keys: the on-wire persisted-state format.
const (
	keyDatasetHash   = "ceiba_dataset_hash"
	keyTablesHash    = "ceiba_dataset_tables_hash"
	keyPropsHash     = "ceiba_props_hash"
	keyTableHashStem = "ceiba_table_hash_"
)

// HashInvalidated is the sentinel written into aggregate hash labels by a
// partial sync, which cannot compute them. It matches no real digest, so the
// next full sync re-derives everything.
const HashInvalidated = "invalid"

// tableHashKey builds the per-table hash label key. Table ids are case
// sensitive as identifiers but lowercased here because the remote label
// namespace is case-preserving only for values.
func tableHashKey(tableID string) string {
	return keyTableHashStem + strings.ToLower(tableID)
}

// Cache is the persisted reconciliation state: a string-keyed store of
// content hashes that rides along in the dataset's reserved labels. It is
// the engine's only memory between invocations.
type Cache struct {
	values map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]string)}
}

// CacheFromLabels extracts the reserved entries of a remote label map into a
// cache. Non-reserved labels are ignored.
func CacheFromLabels(labels map[string]string) *Cache {
	c := NewCache()
	for k, v := range labels {
		if strings.HasPrefix(k, ReservedPrefix) {
			c.values[k] = v
		}
	}
	return c
}

// DatasetHash returns the cached whole-dataset digest, or "" if absent.
func (c *Cache) DatasetHash() string { return c.values[keyDatasetHash] }

// TablesHash returns the cached table-sequence digest, or "" if absent.
func (c *Cache) TablesHash() string { return c.values[keyTablesHash] }

// PropsHash returns the cached properties digest, or "" if absent.
func (c *Cache) PropsHash() string { return c.values[keyPropsHash] }

// TableHash returns the cached digest for one table, or "" if absent.
func (c *Cache) TableHash(tableID string) string {
	return c.values[tableHashKey(tableID)]
}

// SetDatasetHash stores the whole-dataset digest.
func (c *Cache) SetDatasetHash(h string) { c.values[keyDatasetHash] = h }

// SetTablesHash stores the table-sequence digest.
func (c *Cache) SetTablesHash(h string) { c.values[keyTablesHash] = h }

// SetPropsHash stores the properties digest.
func (c *Cache) SetPropsHash(h string) { c.values[keyPropsHash] = h }

// SetTableHash stores the digest for one table.
func (c *Cache) SetTableHash(tableID, h string) {
	c.values[tableHashKey(tableID)] = h
}

// Labels renders the cache as a reserved label map ready to merge into the
// write-back.
func (c *Cache) Labels() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// StripReserved returns a copy of labels without reserved keys, or nil when
// nothing non-reserved remains. A nil result keeps "no labels" distinct from
// "empty labels" in specs and digests.
func StripReserved(labels map[string]string) map[string]string {
	var out map[string]string
	for k, v := range labels {
		if strings.HasPrefix(k, ReservedPrefix) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}

// mergeLabels combines user labels with the cache's reserved entries into
// the single map written back to the remote store.
func mergeLabels(user map[string]string, cache *Cache) map[string]string {
	out := make(map[string]string, len(user)+len(cache.values))
	for k, v := range user {
		out[k] = v
	}
	for k, v := range cache.Labels() {
		out[k] = v
	}
	return out
}
