package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/model"
)

// AppendItems indexes additional items and clears every cache before readers
// can observe the new state. An empty batch is a no-op. On error nothing is written.
// IDs queued by an unfinished chunked job count as taken.
func (e *Engine) AppendItems(items []model.Item) error {
	return e.appendItems(items, true)
}

func (e *Engine) appendItems(items []model.Item, checkClaims bool) error {
	if len(items) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if checkClaims {
		if err := e.checkUnclaimed(items); err != nil {
			return err
		}
	}
	if err := e.indexer.Append(items); err != nil {
		return err
	}
	e.clearCachesLocked()
	e.metrics.Indexed(len(items), e.items.Len(), e.indices.KeyCounts())
	return nil
}

// LoadAsync appends items in chunks of chunkSize on a background job and returns
// the job ID. The engine stays queryable while the job runs; each chunk becomes
// visible as soon as it is appended. The whole collection is validated before
// the job is created, and its IDs stay reserved until the job ends, so no other
// append can make a later chunk fail. A job cancelled by Close keeps the chunks
// it already appended.
func (e *Engine) LoadAsync(items []model.Item, chunkSize int) (string, error) {
	return e.startChunkedJob(model.JobTypeLoadSnapshot, items, chunkSize)
}

// AppendItemsAsync is LoadAsync with the engine's configured chunk size.
func (e *Engine) AppendItemsAsync(items []model.Item) (string, error) {
	return e.startChunkedJob(model.JobTypeAppendItems, items, e.chunkSize)
}

func (e *Engine) startChunkedJob(jobType model.JobType, items []model.Item, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		chunkSize = e.chunkSize
	}
	items = append([]model.Item(nil), items...)

	e.mu.RLock()
	err := e.indexer.Validate(items)
	if err == nil {
		err = e.claim(items)
	}
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}

	jobID := e.jobs.CreateJob(jobType, map[string]string{
		"items":      strconv.Itoa(len(items)),
		"chunk_size": strconv.Itoa(chunkSize),
	})
	err = e.jobs.ExecuteJob(jobID, func(ctx context.Context, job model.Job) error {
		defer e.release(items)
		return e.appendChunks(ctx, job.ID, items, chunkSize)
	})
	if err != nil {
		e.release(items)
		return "", fmt.Errorf("failed to start %s job: %w", jobType, err)
	}
	return jobID, nil
}

// appendChunks takes the write lock once per chunk so queries interleave with a long load.
func (e *Engine) appendChunks(ctx context.Context, jobID string, items []model.Item, chunkSize int) error {
	total := len(items)
	e.jobs.UpdateJobProgress(jobID, 0, total, "starting")

	for start := 0; start < total; start += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+chunkSize, total)
		if err := e.appendItems(items[start:end], false); err != nil {
			return fmt.Errorf("appending items %d-%d: %w", start, end-1, err)
		}
		e.jobs.UpdateJobProgress(jobID, end, total, fmt.Sprintf("appended %d of %d items", end, total))
	}

	e.logger.Info("chunked load finished", "job_id", jobID, "items", total, "chunk_size", chunkSize)
	return nil
}

// claim reserves the IDs of items for a chunked job. The caller holds mu, which
// orders claims against the claim check in AppendItems.
func (e *Engine) claim(items []model.Item) error {
	e.claimMu.Lock()
	defer e.claimMu.Unlock()

	for _, item := range items {
		if _, taken := e.claimed[item.ID]; taken {
			return errors.NewDuplicateItemError(item.ID)
		}
	}
	for _, item := range items {
		e.claimed[item.ID] = struct{}{}
	}
	return nil
}

func (e *Engine) release(items []model.Item) {
	e.claimMu.Lock()
	defer e.claimMu.Unlock()
	for _, item := range items {
		delete(e.claimed, item.ID)
	}
}

func (e *Engine) checkUnclaimed(items []model.Item) error {
	e.claimMu.Lock()
	defer e.claimMu.Unlock()
	for _, item := range items {
		if _, taken := e.claimed[item.ID]; taken {
			return errors.NewDuplicateItemError(item.ID)
		}
	}
	return nil
}
