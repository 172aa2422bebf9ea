package toolchain

import (
	"strings"
	"time"
)

const (
	preferenceAssignmentSeparatorConstant = "="
	preferenceLineSeparatorConstant       = "\n"
	preferenceCarriageReturnConstant      = "\r"
)

// PreferenceCache is a point-in-time snapshot of the toolchain preference store.
// It starts stale and becomes valid only after a successful Replace.
type PreferenceCache struct {
	entries             map[string]string
	valid               bool
	populated           bool
	lastRefreshDuration time.Duration
}

// NewPreferenceCache constructs an empty, stale cache.
func NewPreferenceCache() *PreferenceCache {
	return &PreferenceCache{entries: map[string]string{}}
}

// Valid reports whether the snapshot reflects the store since the last mutation.
func (cache *PreferenceCache) Valid() bool {
	return cache.valid
}

// Invalidate marks the snapshot stale while keeping its entries readable.
func (cache *PreferenceCache) Invalidate() {
	cache.valid = false
}

// Replace installs a complete snapshot along with the duration of the query that produced it.
func (cache *PreferenceCache) Replace(entries map[string]string, refreshDuration time.Duration) {
	replacement := make(map[string]string, len(entries))
	for key, value := range entries {
		replacement[key] = value
	}
	cache.entries = replacement
	cache.valid = true
	cache.populated = true
	cache.lastRefreshDuration = refreshDuration
}

// Lookup returns the cached value for key.
func (cache *PreferenceCache) Lookup(key string) (string, bool) {
	value, exists := cache.entries[key]
	return value, exists
}

// Snapshot returns a copy of the cached entries.
func (cache *PreferenceCache) Snapshot() map[string]string {
	snapshot := make(map[string]string, len(cache.entries))
	for key, value := range cache.entries {
		snapshot[key] = value
	}
	return snapshot
}

// LastRefreshDuration reports how long the most recent successful refresh took.
// The boolean is false until the cache has been populated once.
func (cache *PreferenceCache) LastRefreshDuration() (time.Duration, bool) {
	return cache.lastRefreshDuration, cache.populated
}

// ParsePreferences reads key=value lines as printed by the toolchain.
// Only the first separator splits a line; lines without one or with an empty key are ignored.
func ParsePreferences(output string) map[string]string {
	entries := map[string]string{}
	for _, line := range strings.Split(output, preferenceLineSeparatorConstant) {
		trimmedLine := strings.TrimSuffix(line, preferenceCarriageReturnConstant)
		key, value, separatorFound := strings.Cut(trimmedLine, preferenceAssignmentSeparatorConstant)
		if !separatorFound {
			continue
		}
		if len(strings.TrimSpace(key)) == 0 {
			continue
		}
		entries[key] = value
	}
	return entries
}
