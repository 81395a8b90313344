package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/record-search/config"
	internalErrors "github.com/gcbaptista/record-search/internal/errors"
	fixtures "github.com/gcbaptista/record-search/internal/testing"
	"github.com/gcbaptista/record-search/model"
)

func TestSearchCommand(t *testing.T) {
	snapshot := fixtures.WriteSnapshot(t, fixtures.ScenarioItems())

	t.Run("prints ranked results", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"search_engine", "--log-level", "error", "search", "--snapshot", snapshot, "paracetamol"})
		require.NoError(t, err)

		var results []model.SearchResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &results))
		assert.Equal(t, []int{1, 2}, fixtures.IDs(results))
	})

	t.Run("unquoted words form one query", func(t *testing.T) {
		run := func(args ...string) string {
			var out bytes.Buffer
			base := []string{"search_engine", "--log-level", "error", "search", "--snapshot", snapshot}
			require.NoError(t, newApp(&out).Run(append(base, args...)))
			return out.String()
		}

		joined := run("paracetamol", "500")
		assert.Equal(t, run("paracetamol 500"), joined)
		assert.NotEqual(t, run("paracetamol"), joined, "words after the first are not dropped")
	})

	t.Run("query is required", func(t *testing.T) {
		var out bytes.Buffer
		err := newApp(&out).Run([]string{"search_engine", "search", "--snapshot", snapshot})
		assert.Error(t, err)
	})
}

func TestAlternativesCommand(t *testing.T) {
	snapshot := fixtures.WriteSnapshot(t, fixtures.ScenarioItems())

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"search_engine", "--log-level", "error", "alternatives", "-s", snapshot, "1"})
	require.NoError(t, err)

	var results []model.SearchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	assert.Equal(t, []int{2}, fixtures.IDs(results))

	err = newApp(&out).Run([]string{"search_engine", "--log-level", "error", "alternatives", "-s", snapshot, "99"})
	assert.ErrorIs(t, err, internalErrors.ErrItemNotFound)

	err = newApp(&out).Run([]string{"search_engine", "alternatives", "-s", snapshot, "abc"})
	assert.Error(t, err)
}

func TestOpenEngine_FirstChunkIsSynchronous(t *testing.T) {
	cfg := &config.Config{
		Loader: config.LoaderConfig{ChunkSize: 100, Workers: 1},
		Engine: config.DefaultEngineSettings(),
	}
	items := fixtures.GenerateItems(1, 350)

	eng, err := openEngine(cfg, items)
	require.NoError(t, err)
	defer eng.Close()

	assert.GreaterOrEqual(t, eng.Len(), 100, "the first chunk is indexed before openEngine returns")

	jobs := eng.Jobs().ListJobs(nil)
	require.Len(t, jobs, 1)
	job := fixtures.WaitForJobCompletion(t, eng, jobs[0].ID, fixtures.DefaultJobPollingOptions())
	fixtures.AssertJobCompleted(t, job, model.JobTypeLoadSnapshot)
	assert.Equal(t, 350, eng.Len())
}

func TestOpenEngine_SmallSnapshotHasNoJob(t *testing.T) {
	cfg := &config.Config{
		Loader: config.LoaderConfig{ChunkSize: 100, Workers: 1},
		Engine: config.DefaultEngineSettings(),
	}

	eng, err := openEngine(cfg, fixtures.CatalogItems())
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, len(fixtures.CatalogItems()), eng.Len())
	assert.Empty(t, eng.Jobs().ListJobs(nil))
}
