package model

import "time"

// SearchEvent records one served query for analytics.
type SearchEvent struct {
	Query        string        `json:"query"`      // normalized query text
	MatchType    MatchType     `json:"match_type"` // match type of the top result, empty when none
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch is a query with its count over the reporting window
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution buckets response times over the reporting window
type ResponseTimeDistribution struct {
	Under1ms   int `json:"under_1ms"`
	Under10ms  int `json:"under_10ms"`
	Under100ms int `json:"under_100ms"`
	Over100ms  int `json:"over_100ms"`
	Total      int `json:"total"`
}

// AnalyticsDashboard summarises recent query traffic
type AnalyticsDashboard struct {
	TotalSearches            int                      `json:"total_searches"` // all retained events
	Searches24h              int                      `json:"searches_24h"`
	AvgResponseTimeMicros    int64                    `json:"avg_response_time_us"` // over the last 24h
	ZeroResultRate           float64                  `json:"zero_result_rate"`     // over the last 24h
	IndexedItems             int                      `json:"indexed_items"`
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ZeroResultSearches       []PopularSearch          `json:"zero_result_searches"`
	MatchTypes               map[MatchType]int        `json:"match_types"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
}
