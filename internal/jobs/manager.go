package jobs

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/internal/logger"
	"github.com/gcbaptista/record-search/internal/metrics"
	"github.com/gcbaptista/record-search/model"
)

// JobFunc is the body of a background job. ctx is cancelled when the manager stops.
type JobFunc func(ctx context.Context, job model.Job) error

// Manager handles background job execution and tracking.
// Jobs run on a bounded ants pool; at most maxWorkers run at once.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	pool     *ants.Pool
	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	metrics  *JobMetrics
	logger   *slog.Logger
}

// NewManager creates a new job manager with specified worker count.
// prom may be nil.
func NewManager(maxWorkers int, prom *metrics.Metrics) (*Manager, error) {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	pool, err := ants.NewPool(maxWorkers)
	if err != nil {
		return nil, fmt.Errorf("creating job worker pool: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*model.Job),
		pool:     pool,
		ctx:      ctx,
		cancel:   cancel,
		stopChan: make(chan struct{}),
		metrics:  NewJobMetrics(prom),
		logger:   logger.WithComponent("jobs"),
	}, nil
}

// Start begins background cleanup of finished jobs.
func (m *Manager) Start() {
	m.logger.Info("job manager started", "max_workers", m.pool.Cap())
	go m.cleanupRoutine()
}

// Stop cancels running jobs, waits for them to return and releases the pool.
// It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.cancel()
		m.wg.Wait()
		m.pool.Release()
		m.logger.Info("job manager stopped")
	})
}

// CreateJob creates a new pending job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	m.logger.Debug("job created", "job_id", job.ID, "type", job.Type)
	return job.ID
}

// GetJob returns a copy of the job with the given ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	jobCopy := copyJob(job)
	return &jobCopy, nil
}

// ListJobs returns copies of all jobs, oldest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob runs a pending job on the worker pool. It returns once the job is
// queued; the job's status tracks its outcome.
func (m *Manager) ExecuteJob(jobID string, jobFunc JobFunc) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	snapshot := copyJob(job)
	m.mu.Unlock()

	select {
	case <-m.stopChan:
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	default:
	}

	m.wg.Add(1)
	err := m.pool.Submit(func() {
		defer m.wg.Done()
		m.run(snapshot, jobFunc)
	})
	if err != nil {
		m.wg.Done()
		m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
		return fmt.Errorf("submitting job %s: %w", jobID, err)
	}
	return nil
}

func (m *Manager) run(job model.Job, jobFunc JobFunc) {
	m.updateJobStatus(job.ID, model.JobStatusRunning, "")
	startTime := time.Now()

	err := jobFunc(m.ctx, job)
	executionTime := time.Since(startTime)

	switch {
	case err == nil:
		m.updateJobStatus(job.ID, model.JobStatusCompleted, "")
		m.metrics.RecordJobCompleted(job.Type, executionTime)
		m.logger.Info("job completed", "job_id", job.ID, "type", job.Type, "duration", executionTime)
	case stderrors.Is(err, context.Canceled):
		m.updateJobStatus(job.ID, model.JobStatusCancelled, err.Error())
		m.metrics.RecordJobCancelled(job.Type)
		m.logger.Warn("job cancelled", "job_id", job.ID, "type", job.Type, "duration", executionTime)
	default:
		m.updateJobStatus(job.ID, model.JobStatusFailed, err.Error())
		m.metrics.RecordJobFailed(job.Type)
		m.logger.Error("job failed", "job_id", job.ID, "type", job.Type, "duration", executionTime, "error", err)
	}
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	now := time.Now()
	if status == model.JobStatusRunning {
		job.StartedAt = &now
	}
	if status.IsTerminal() {
		job.CompletedAt = &now
	}

	m.metrics.RecordJobStatusChange(oldStatus, status)
}

func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than maxAge
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}
	if cleaned > 0 {
		m.logger.Info("cleaned up old jobs", "count", cleaned)
	}
	return cleaned
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// GetJobSuccessRate returns the overall job success rate
func (m *Manager) GetJobSuccessRate() float64 {
	return m.metrics.GetSuccessRate()
}

// GetCurrentWorkload returns the number of pending or running jobs
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.GetCurrentWorkload()
}

func copyJob(job *model.Job) model.Job {
	c := *job
	if job.Progress != nil {
		p := *job.Progress
		c.Progress = &p
	}
	if job.Metadata != nil {
		c.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}
