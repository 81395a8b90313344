package engine

import (
	"strconv"
	"time"

	"github.com/gcbaptista/record-search/internal/search"
	"github.com/gcbaptista/record-search/internal/tokenizer"
	"github.com/gcbaptista/record-search/model"
)

// Search returns the ranked results for query. Results are served from the
// query cache when possible; concurrent misses on the same query are computed once.
// The returned slice belongs to the caller.
func (e *Engine) Search(query string) []model.SearchResult {
	start := time.Now()
	key := tokenizer.Normalize(query)
	if key == "" {
		return []model.SearchResult{}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	results, hit := e.queryCache.Get(key)
	e.metrics.CacheLookup("query", hit)
	if !hit {
		// The caller running the flight holds the read lock, so no write can
		// interleave with the computation or the cache fill.
		v, _, _ := e.flight.Do("q:"+key, func() (interface{}, error) {
			r := e.searcher.Search(key)
			e.queryCache.Set(key, r)
			return r, nil
		})
		results = v.([]model.SearchResult)
	}

	e.metrics.ObserveQuery("search", resultType(results), time.Since(start).Seconds(), len(results))
	return cloneResults(results)
}

// FindAlternatives returns items sharing an identifier or tag with the item id,
// never the item itself. An unknown id yields an ItemNotFoundError.
func (e *Engine) FindAlternatives(id int) ([]model.SearchResult, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	results, hit := e.altCache.Get(id)
	e.metrics.CacheLookup("alternatives", hit)
	if !hit {
		v, err, _ := e.flight.Do("a:"+strconv.Itoa(id), func() (interface{}, error) {
			r, err := e.searcher.FindAlternatives(id)
			if err != nil {
				return nil, err
			}
			e.altCache.Set(id, r)
			return r, nil
		})
		if err != nil {
			e.metrics.ObserveQuery("alternatives", "error", time.Since(start).Seconds(), 0)
			return nil, err
		}
		results = v.([]model.SearchResult)
	}

	e.metrics.ObserveQuery("alternatives", resultType(results), time.Since(start).Seconds(), len(results))
	return cloneResults(results), nil
}

// Filter returns the items satisfying every supplied criterion, in input order.
// It does not read the engine's state.
func (e *Engine) Filter(items []model.Item, criteria model.FilterCriteria) ([]model.Item, error) {
	return search.Filter(items, criteria)
}

// FilterOptions returns the facet values over all indexed items. The value is
// memoized until the next write or ClearCache.
func (e *Engine) FilterOptions() model.FilterOptions {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, hit := e.optionsCache.Get()
	e.metrics.CacheLookup("filter_options", hit)
	opts := e.optionsCache.GetOrCompute(func() model.FilterOptions {
		return search.Options(e.items.All())
	})
	return cloneOptions(opts)
}

// ClearCache drops the query cache, the alternatives cache and the filter options memo.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearCachesLocked()
}

func (e *Engine) clearCachesLocked() {
	e.queryCache.Clear()
	e.altCache.Clear()
	e.optionsCache.Clear()
	e.metrics.CacheCleared()
	e.logger.Debug("caches cleared")
}

func resultType(results []model.SearchResult) string {
	if len(results) == 0 {
		return "empty"
	}
	return string(results[0].MatchType)
}

func cloneResults(results []model.SearchResult) []model.SearchResult {
	out := make([]model.SearchResult, len(results))
	for i, r := range results {
		out[i] = r
		out[i].Item = r.Item.Clone()
	}
	return out
}

func cloneOptions(opts model.FilterOptions) model.FilterOptions {
	out := model.FilterOptions{
		Brands: append([]string{}, opts.Brands...),
		Tags:   append([]string{}, opts.Tags...),
	}
	if opts.PriceRange != nil {
		pr := *opts.PriceRange
		out.PriceRange = &pr
	}
	return out
}
