package indexing

import (
	"runtime"
	"sync"
	"time"

	"github.com/gcbaptista/record-search/model"
)

// BulkIndexingConfig contains configuration for bulk indexing operations
type BulkIndexingConfig struct {
	BatchSize        int // Number of items analysed per batch
	WorkerCount      int // Number of parallel workers
	ProgressCallback func(processed, total int, message string)
}

// DefaultBulkIndexingConfig returns sensible defaults for bulk indexing
func DefaultBulkIndexingConfig() BulkIndexingConfig {
	return BulkIndexingConfig{
		BatchSize:   1000,
		WorkerCount: runtime.NumCPU(),
	}
}

// BulkIndexer analyses batches of items in parallel and applies them in input
// order, so the resulting indices match a sequential build exactly.
type BulkIndexer struct {
	service *Service
	config  BulkIndexingConfig
}

// NewBulkIndexer creates a new bulk indexer with the given configuration
func NewBulkIndexer(service *Service, config BulkIndexingConfig) *BulkIndexer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBulkIndexingConfig().BatchSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	return &BulkIndexer{service: service, config: config}
}

type batchJob struct {
	seq   int
	items []model.Item
}

type batchResult struct {
	seq      int
	analyses []analysis
}

// BulkAddItems validates the whole collection, then indexes it.
func (bi *BulkIndexer) BulkAddItems(items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := bi.service.Validate(items); err != nil {
		return err
	}

	start := time.Now()
	bi.service.logger.Debug("bulk indexing started", "items", len(items), "workers", bi.config.WorkerCount)

	batches := (len(items) + bi.config.BatchSize - 1) / bi.config.BatchSize
	jobs := make(chan batchJob, batches)
	results := make(chan batchResult, batches)

	var wg sync.WaitGroup
	for i := 0; i < bi.config.WorkerCount; i++ {
		wg.Add(1)
		go bi.worker(jobs, results, &wg)
	}

	for seq := 0; seq < batches; seq++ {
		from := seq * bi.config.BatchSize
		to := min(from+bi.config.BatchSize, len(items))
		jobs <- batchJob{seq: seq, items: items[from:to]}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Batches finish out of order; apply them by sequence number.
	pending := make(map[int][]analysis, batches)
	next, processed := 0, 0
	for r := range results {
		pending[r.seq] = r.analyses
		for {
			analyses, ok := pending[next]
			if !ok {
				break
			}
			for _, a := range analyses {
				bi.service.apply(a)
			}
			delete(pending, next)
			processed += len(analyses)
			next++
			if bi.config.ProgressCallback != nil {
				bi.config.ProgressCallback(processed, len(items), "indexing items")
			}
		}
	}

	sorted := bi.service.indices.Commit()
	duration := time.Since(start)
	bi.service.logger.Debug("bulk indexing completed",
		"items", len(items), "keys_sorted", sorted, "duration", duration,
		"items_per_sec", float64(len(items))/duration.Seconds())
	return nil
}

// worker analyses batches until the job channel closes
func (bi *BulkIndexer) worker(jobs <-chan batchJob, results chan<- batchResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		analyses := make([]analysis, len(job.items))
		for i, item := range job.items {
			analyses[i] = analyze(item)
		}
		results <- batchResult{seq: job.seq, analyses: analyses}
	}
}
