// Package testing provides item fixtures and helpers shared by the package tests.
package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/record-search/model"
)

// ScenarioItems returns the two-item collection used by the reference scenarios:
// both share the identifier "Paracetamol" and the tag "Fever", id 1 is cheaper.
func ScenarioItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Paracetamol 500", Identifiers: []string{"Paracetamol"}, Tags: []string{"Fever"}, Brand: "Acme", Price: 10},
		{ID: 2, Name: "Panadol", Identifiers: []string{"Paracetamol"}, Tags: []string{"Fever"}, Brand: "Beta", Price: 20},
	}
}

// CatalogItems returns a small but varied catalogue.
func CatalogItems() []model.Item {
	return []model.Item{
		{ID: 1, Name: "Paracetamol 500", Identifiers: []string{"Paracetamol"}, Tags: []string{"Fever", "Headache"}, Brand: "Acme", Price: 10, Form: "tablet", Strength: "500mg"},
		{ID: 2, Name: "Panadol", Identifiers: []string{"Paracetamol"}, Tags: []string{"Fever"}, Brand: "Beta", Price: 20, Form: "tablet", Strength: "500mg"},
		{ID: 3, Name: "Brufen 400", Identifiers: []string{"Ibuprofen"}, Tags: []string{"Pain Relief", "Inflammation"}, Brand: "Abbott", Price: 35.5, Form: "tablet", Strength: "400mg"},
		{ID: 4, Name: "Combiflam", Identifiers: []string{"Ibuprofen", "Paracetamol"}, Tags: []string{"Pain Relief", "Fever"}, Brand: "Sanofi", Price: 42, Form: "tablet"},
		{ID: 5, Name: "Cetirizine Syrup", Identifiers: []string{"Cetirizine"}, Tags: []string{"Allergy", "Common Cold"}, Brand: "Cipla", Price: 55, Form: "syrup", Strength: "5mg/5ml"},
		{ID: 6, Name: "Benadryl Cough Formula", Identifiers: []string{"Diphenhydramine"}, Tags: []string{"Cough", "Common Cold"}, Brand: "Johnson", Price: 98.25, Form: "syrup"},
		{ID: 7, Name: "Amoxicillin 250", Identifiers: []string{"Amoxicillin"}, Tags: []string{"Bacterial Infection"}, Brand: "Cipla", Price: 120, Form: "capsule", Strength: "250mg"},
		{ID: 8, Name: "Vitamin C Chewable", Identifiers: []string{"Ascorbic Acid"}, Brand: "Acme", Price: 5},
	}
}

// GenerateItems returns n synthetic items with ids starting at firstID.
// Every item shares the tag "Generic" and cycles through ten identifiers and brands.
func GenerateItems(firstID, n int) []model.Item {
	items := make([]model.Item, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		items[i] = model.Item{
			ID:          id,
			Name:        fmt.Sprintf("Product %d Tablet", id),
			Identifiers: []string{fmt.Sprintf("Compound%c", 'A'+rune(i%10))},
			Tags:        []string{"Generic", fmt.Sprintf("Category %d", i%5)},
			Brand:       fmt.Sprintf("Brand%d", i%10),
			Price:       float64(i%50) + 0.5,
			Form:        "tablet",
		}
	}
	return items
}

// WriteSnapshot writes items as a JSON array into a temporary file and returns its path.
func WriteSnapshot(t *testing.T, items []model.Item) string {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// IDs returns the item ids of results in order.
func IDs(results []model.SearchResult) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.Item.ID
	}
	return ids
}

// JobSource is anything that can report a job by id.
type JobSource interface {
	GetJob(jobID string) (*model.Job, error)
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  false,
	}
}

// WaitForJobCompletion polls a job until it reaches a terminal state or times out.
func WaitForJobCompletion(t *testing.T, jobs JobSource, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobs.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			if job.Status.IsTerminal() {
				return job
			}
			if opts.LogProgress && job.Progress != nil {
				t.Logf("Job %s progress: %d/%d - %s", jobID, job.Progress.Current, job.Progress.Total, job.Progress.Message)
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
