package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/record-search/internal/metrics"
	"github.com/gcbaptista/record-search/model"
)

// executionWindow bounds the per-type execution times kept for averages.
const executionWindow = 100

// JobMetricsData is a point-in-time copy of JobMetrics.
type JobMetricsData struct {
	JobsCreated          int64                           `json:"jobs_created"`
	JobsCompleted        int64                           `json:"jobs_completed"`
	JobsFailed           int64                           `json:"jobs_failed"`
	JobsCancelled        int64                           `json:"jobs_cancelled"`
	TotalExecutionTime   time.Duration                   `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration                   `json:"average_execution_time_ns"`
	AverageByType        map[model.JobType]time.Duration `json:"average_execution_time_by_type_ns"`
	JobsByType           map[model.JobType]int64         `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64       `json:"jobs_by_status"`
	SuccessRate          float64                         `json:"success_rate"`
	LastUpdated          time.Time                       `json:"last_updated"`
}

// JobMetrics counts job outcomes in memory and forwards terminal outcomes to
// the Prometheus registry when one is attached.
type JobMetrics struct {
	mu            sync.RWMutex
	created       int64
	completed     int64
	failed        int64
	cancelled     int64
	totalExec     time.Duration
	byType        map[model.JobType]int64
	byStatus      map[model.JobStatus]int64
	execTimesType map[model.JobType][]time.Duration
	lastUpdated   time.Time
	prom          *metrics.Metrics
}

// NewJobMetrics creates a new metrics collector. prom may be nil.
func NewJobMetrics(prom *metrics.Metrics) *JobMetrics {
	return &JobMetrics{
		byType:        make(map[model.JobType]int64),
		byStatus:      make(map[model.JobStatus]int64),
		execTimesType: make(map[model.JobType][]time.Duration),
		lastUpdated:   time.Now(),
		prom:          prom,
	}
}

// RecordJobCreated counts a new pending job
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.byType[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status buckets
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.byStatus[oldStatus] > 0 {
		m.byStatus[oldStatus]--
	}
	m.byStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records successful job completion
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	m.completed++
	m.totalExec += executionTime
	times := append(m.execTimesType[jobType], executionTime)
	if len(times) > executionWindow {
		times = times[len(times)-executionWindow:]
	}
	m.execTimesType[jobType] = times
	m.lastUpdated = time.Now()
	m.mu.Unlock()

	m.prom.JobFinished(string(jobType), string(model.JobStatusCompleted))
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	m.failed++
	m.lastUpdated = time.Now()
	m.mu.Unlock()

	m.prom.JobFinished(string(jobType), string(model.JobStatusFailed))
}

// RecordJobCancelled records a job stopped by shutdown
func (m *JobMetrics) RecordJobCancelled(jobType model.JobType) {
	m.mu.Lock()
	m.cancelled++
	m.lastUpdated = time.Now()
	m.mu.Unlock()

	m.prom.JobFinished(string(jobType), string(model.JobStatusCancelled))
}

// GetMetrics returns a copy of the current counters
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := JobMetricsData{
		JobsCreated:        m.created,
		JobsCompleted:      m.completed,
		JobsFailed:         m.failed,
		JobsCancelled:      m.cancelled,
		TotalExecutionTime: m.totalExec,
		AverageByType:      make(map[model.JobType]time.Duration, len(m.execTimesType)),
		JobsByType:         make(map[model.JobType]int64, len(m.byType)),
		JobsByStatus:       make(map[model.JobStatus]int64, len(m.byStatus)),
		SuccessRate:        m.successRateLocked(),
		LastUpdated:        m.lastUpdated,
	}
	if m.completed > 0 {
		data.AverageExecutionTime = m.totalExec / time.Duration(m.completed)
	}
	for k, v := range m.byType {
		data.JobsByType[k] = v
	}
	for k, v := range m.byStatus {
		data.JobsByStatus[k] = v
	}
	for k := range m.execTimesType {
		data.AverageByType[k] = m.averageLocked(k)
	}
	return data
}

// GetAverageExecutionTimeByType averages the most recent completions of jobType
func (m *JobMetrics) GetAverageExecutionTimeByType(jobType model.JobType) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.averageLocked(jobType)
}

func (m *JobMetrics) averageLocked(jobType model.JobType) time.Duration {
	times := m.execTimesType[jobType]
	if len(times) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range times {
		total += t
	}
	return total / time.Duration(len(times))
}

// GetSuccessRate returns completed / (completed + failed), or 1 before any job finished.
// Cancelled jobs are not counted against the rate.
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRateLocked()
}

func (m *JobMetrics) successRateLocked() float64 {
	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// GetCurrentWorkload returns the number of pending or running jobs
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning]
}
