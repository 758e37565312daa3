// Package cache stores fused analysis reports so an unchanged document is
// not sent to the providers twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/legalens/internal/model"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "legalens:v2:"

// ReportKey derives the cache key for a document. settings must identify
// everything else that shapes the fused report: providers, their models,
// exclusions and output style. Text is used verbatim.
func ReportKey(text string, settings ...string) string {
	h := sha256.New()
	for _, s := range settings {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// ReportCache stores fused reports as JSON in an underlying Cache
type ReportCache struct {
	store Cache
	ttl   time.Duration
}

// NewReportCache wraps store; ttl of zero uses the store's default
func NewReportCache(store Cache, ttl time.Duration) *ReportCache {
	return &ReportCache{store: store, ttl: ttl}
}

// Get returns the cached report for key. Entries that no longer decode
// are treated as misses.
func (c *ReportCache) Get(key string) (*model.FusedReport, bool) {
	data, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}

	var report model.FusedReport
	if err := json.Unmarshal(data, &report); err != nil {
		_ = c.store.Delete(key)
		return nil, false
	}
	return &report, true
}

// Put stores report under key
func (c *ReportCache) Put(key string, report *model.FusedReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.store.Set(key, data, c.ttl)
}

// Clear drops every cached report
func (c *ReportCache) Clear() error {
	return c.store.Clear()
}
