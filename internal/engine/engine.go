// Package engine is the public facade of the record search engine. It owns the
// indices, the item store and the result caches behind one coarse RWMutex:
// reads share the lock, writes take it exclusively and clear every cache before
// releasing it.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/record-search/config"
	"github.com/gcbaptista/record-search/index"
	"github.com/gcbaptista/record-search/internal/cache"
	"github.com/gcbaptista/record-search/internal/indexing"
	"github.com/gcbaptista/record-search/internal/jobs"
	"github.com/gcbaptista/record-search/internal/metrics"
	"github.com/gcbaptista/record-search/internal/search"
	"github.com/gcbaptista/record-search/model"
	"github.com/gcbaptista/record-search/store"
)

const defaultChunkSize = 1000

// Engine indexes a collection of items and answers ranked queries over it.
// It is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	indices  *index.Indices
	items    *store.ItemStore
	indexer  *indexing.Service
	searcher *search.Service

	queryCache   *cache.FIFO[string, []model.SearchResult]
	altCache     *cache.FIFO[int, []model.SearchResult]
	optionsCache cache.Memo[model.FilterOptions]
	flight       singleflight.Group

	// IDs of items queued by chunked jobs that have not finished. Guarded by
	// claimMu, which is only taken while mu is held.
	claimMu sync.Mutex
	claimed map[int]struct{}

	jobs      *jobs.Manager
	ownsJobs  bool
	chunkSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type options struct {
	settings  config.EngineSettings
	bulk      *indexing.BulkIndexingConfig
	metrics   *metrics.Metrics
	logger    *slog.Logger
	jobs      *jobs.Manager
	workers   int
	chunkSize int
}

// Option customises an Engine built by New.
type Option func(*options)

// WithSettings replaces the default ranking settings. Zero fields keep their defaults.
func WithSettings(settings config.EngineSettings) Option {
	return func(o *options) { o.settings = settings }
}

// WithMetrics records query, cache and indexing metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger used by the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithJobManager runs background loads on an existing job manager. The caller
// keeps ownership and must stop it.
func WithJobManager(m *jobs.Manager) Option {
	return func(o *options) { o.jobs = m }
}

// WithWorkers sets the worker count of the job manager the engine creates
// when none is supplied.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithChunkSize sets the chunk size used by AppendItemsAsync.
func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// WithBulkIndexing configures the parallel analysis used for large initial builds.
func WithBulkIndexing(cfg indexing.BulkIndexingConfig) Option {
	return func(o *options) { o.bulk = &cfg }
}

// New builds an engine over items. It fails when the settings are invalid or
// when an item is malformed or duplicated; no engine is returned in that case.
func New(items []model.Item, opts ...Option) (*Engine, error) {
	o := options{
		settings:  config.DefaultEngineSettings(),
		workers:   1,
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.chunkSize <= 0 {
		o.chunkSize = defaultChunkSize
	}

	indices := index.NewIndices()
	itemStore := store.NewItemStore()

	indexer, err := indexing.NewService(indices, itemStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}
	if o.bulk != nil {
		indexer.SetBulkConfig(*o.bulk)
	}
	searcher, err := search.NewService(indices, itemStore, o.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}
	settings := searcher.Settings()

	e := &Engine{
		indices:    indices,
		items:      itemStore,
		indexer:    indexer,
		searcher:   searcher,
		queryCache: cache.NewFIFO[string, []model.SearchResult](*settings.QueryCacheSize),
		altCache:   cache.NewFIFO[int, []model.SearchResult](*settings.AlternativesCacheSize),
		claimed:    make(map[int]struct{}),
		jobs:       o.jobs,
		chunkSize:  o.chunkSize,
		metrics:    o.metrics,
		logger:     o.logger.With("component", "engine"),
	}

	if err := indexer.Build(items); err != nil {
		return nil, err
	}
	e.metrics.Indexed(len(items), itemStore.Len(), indices.KeyCounts())

	if e.jobs == nil {
		manager, err := jobs.NewManager(o.workers, o.metrics)
		if err != nil {
			return nil, err
		}
		manager.Start()
		e.jobs = manager
		e.ownsJobs = true
	}
	return e, nil
}

// Close stops the job manager if the engine created it. Running loads are cancelled.
func (e *Engine) Close() {
	if e.ownsJobs {
		e.jobs.Stop()
	}
}

// Settings returns the effective ranking settings.
func (e *Engine) Settings() config.EngineSettings {
	return e.searcher.Settings()
}

// Item returns a copy of the stored item with the given id.
func (e *Engine) Item(id int) (model.Item, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	item, ok := e.items.Get(id)
	if !ok {
		return model.Item{}, false
	}
	return item.Clone(), true
}

// Items returns copies of every indexed item in insertion order.
func (e *Engine) Items() []model.Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stored := e.items.All()
	out := make([]model.Item, len(stored))
	for i, item := range stored {
		out[i] = item.Clone()
	}
	return out
}

// Len returns the number of indexed items.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.items.Len()
}

// Stats describes the current size of the engine.
type Stats struct {
	Items             int            `json:"items"`
	IndexKeys         map[string]int `json:"index_keys"`
	QueryCacheEntries int            `json:"query_cache_entries"`
	AltCacheEntries   int            `json:"alternatives_cache_entries"`
}

// Stats returns the item count, distinct keys per index and cache occupancy.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Items:             e.items.Len(),
		IndexKeys:         e.indices.KeyCounts(),
		QueryCacheEntries: e.queryCache.Len(),
		AltCacheEntries:   e.altCache.Len(),
	}
}

// Jobs exposes the job manager tracking background loads.
func (e *Engine) Jobs() *jobs.Manager {
	return e.jobs
}

// GetJob returns a copy of a background job.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobs.GetJob(jobID)
}
