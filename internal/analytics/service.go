// Package analytics keeps a bounded in-memory log of served queries and
// summarises it for the dashboard endpoint.
package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/record-search/internal/tokenizer"
	"github.com/gcbaptista/record-search/model"
)

const (
	defaultMaxEvents = 10000
	topQueries       = 5
)

// ItemCounter reports how many items are indexed.
type ItemCounter interface {
	Len() int
}

// Service implements analytics tracking and reporting
type Service struct {
	mu        sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	items     ItemCounter
	now       func() time.Time
}

// NewService creates a new analytics service keeping at most maxEvents events.
// A non-positive maxEvents uses the default of 10000.
func NewService(items ItemCounter, maxEvents int) *Service {
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		items:     items,
		now:       time.Now,
	}
}

// TrackSearchEvent records a served query. Blank queries are ignored.
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	event.Query = tokenizer.Normalize(event.Query)
	if event.Query == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	event.Timestamp = s.now()
	s.events = append(s.events, event)
	if len(s.events) > s.maxEvents {
		s.events = s.events[len(s.events)-s.maxEvents:]
	}
}

// GetDashboardData summarises the retained events
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last24h := s.eventsSince(s.now().Add(-24 * time.Hour))

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(s.events),
		Searches24h:              len(last24h),
		AvgResponseTimeMicros:    avgResponseTime(last24h).Microseconds(),
		PopularSearches:          popular(last24h, func(model.SearchEvent) bool { return true }),
		ZeroResultSearches:       popular(last24h, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		MatchTypes:               make(map[model.MatchType]int),
		ResponseTimeDistribution: distribution(last24h),
	}
	if s.items != nil {
		dashboard.IndexedItems = s.items.Len()
	}

	zero := 0
	for _, e := range last24h {
		if e.ResultCount == 0 {
			zero++
			continue
		}
		dashboard.MatchTypes[e.MatchType]++
	}
	if len(last24h) > 0 {
		dashboard.ZeroResultRate = float64(zero) / float64(len(last24h))
	}
	return dashboard
}

// eventsSince returns the suffix of events newer than after. Events are appended in time order.
func (s *Service) eventsSince(after time.Time) []model.SearchEvent {
	i := sort.Search(len(s.events), func(i int) bool {
		return s.events[i].Timestamp.After(after)
	})
	return s.events[i:]
}

func avgResponseTime(events []model.SearchEvent) time.Duration {
	if len(events) == 0 {
		return 0
	}
	var total time.Duration
	for _, e := range events {
		total += e.ResponseTime
	}
	return total / time.Duration(len(events))
}

// popular returns the most frequent queries among events accepted by keep,
// by count descending then query ascending.
func popular(events []model.SearchEvent, keep func(model.SearchEvent) bool) []model.PopularSearch {
	counts := make(map[string]int)
	for _, e := range events {
		if keep(e) {
			counts[e.Query]++
		}
	}

	out := make([]model.PopularSearch, 0, len(counts))
	for q, n := range counts {
		out = append(out, model.PopularSearch{Query: q, SearchCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SearchCount != out[j].SearchCount {
			return out[i].SearchCount > out[j].SearchCount
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > topQueries {
		out = out[:topQueries]
	}
	return out
}

func distribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{Total: len(events)}
	for _, e := range events {
		switch {
		case e.ResponseTime < time.Millisecond:
			dist.Under1ms++
		case e.ResponseTime < 10*time.Millisecond:
			dist.Under10ms++
		case e.ResponseTime < 100*time.Millisecond:
			dist.Under100ms++
		default:
			dist.Over100ms++
		}
	}
	return dist
}
