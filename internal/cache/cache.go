// Package cache provides the bounded, expiring caches used by the HTTP layer:
// validation results keyed by submission fingerprint and batch reports keyed by id.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/taejunjeon/leadership/internal/validation"
)

const (
	defaultSize           = 1024
	DefaultValidationTTL  = 5 * time.Minute
	DefaultBatchReportTTL = 24 * time.Hour
)

// Config sizes a cache.
type Config struct {
	Size int           `mapstructure:"size" yaml:"size"`
	TTL  time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// TTL is an LRU whose entries expire after a fixed duration.
type TTL[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New builds a cache; non-positive values fall back to the defaults.
func New[K comparable, V any](cfg Config, defaultTTL time.Duration) *TTL[K, V] {
	if cfg.Size <= 0 {
		cfg.Size = defaultSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &TTL[K, V]{lru: expirable.NewLRU[K, V](cfg.Size, nil, cfg.TTL)}
}

// Get returns a live entry.
func (c *TTL[K, V]) Get(key K) (V, bool) { return c.lru.Get(key) }

// Add stores value under key, replacing any previous entry.
func (c *TTL[K, V]) Add(key K, value V) { c.lru.Add(key, value) }

// Remove drops key.
func (c *TTL[K, V]) Remove(key K) { c.lru.Remove(key) }

// Len counts entries, including ones not yet evicted.
func (c *TTL[K, V]) Len() int { return c.lru.Len() }

// ValidationKey scopes a cached result to a submission fingerprint and language.
func ValidationKey(fingerprint, lang string) string {
	return fingerprint + "|" + lang
}

// Validations caches valid single-submission results.
type Validations = TTL[string, validation.Result]

// NewValidations builds the validation result cache.
func NewValidations(cfg Config) *Validations {
	return New[string, validation.Result](cfg, DefaultValidationTTL)
}

// BatchReports caches batch reports by report id.
type BatchReports = TTL[string, validation.BatchReport]

// NewBatchReports builds the batch report cache.
func NewBatchReports(cfg Config) *BatchReports {
	return New[string, validation.BatchReport](cfg, DefaultBatchReportTTL)
}
