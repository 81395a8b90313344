// Package services declares the interfaces the HTTP layer consumes, so handlers
// can be exercised against any engine implementation.
package services

import (
	"github.com/gcbaptista/record-search/internal/jobs"
	"github.com/gcbaptista/record-search/model"
)

// SearchResponse is the envelope returned for a ranked query.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []model.SearchResult `json:"results"`
	Total   int                  `json:"total"`
	Took    int64                `json:"took_ms"`
	QueryID string               `json:"query_id"` // unique UUID for this search query
}

// Searcher runs ranked queries
type Searcher interface {
	Search(query string) []model.SearchResult
	FindAlternatives(id int) ([]model.SearchResult, error)
}

// Filterer narrows item collections and reports facet values
type Filterer interface {
	Filter(items []model.Item, criteria model.FilterCriteria) ([]model.Item, error)
	FilterOptions() model.FilterOptions
}

// Indexer adds items to the engine
type Indexer interface {
	AppendItems(items []model.Item) error
	AppendItemsAsync(items []model.Item) (string, error) // Returns job ID
	ClearCache()
}

// ItemReader reads the canonical item table
type ItemReader interface {
	Item(id int) (model.Item, bool)
	Items() []model.Item
	Len() int
}

// RecordEngine is everything the API needs from the engine.
type RecordEngine interface {
	Searcher
	Filterer
	Indexer
	ItemReader
}

// JobManager defines operations for inspecting background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []model.Job
	GetMetrics() jobs.JobMetricsData
	GetCurrentWorkload() int64
}
