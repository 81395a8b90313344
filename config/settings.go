// Package config provides configuration structures for the search engine.
// It defines the tunable ranking constants of the engine and the process-level
// configuration loaded from YAML.
package config

import (
	"fmt"
	"sort"
)

// Similarity algorithms accepted by EngineSettings.SimilarityAlgorithm.
const (
	SimilarityTrigram     = "trigram"
	SimilarityLevenshtein = "levenshtein"
)

// EngineSettings holds every threshold, boost and cap used by the query engine.
// The defaults reproduce the reference ranking behaviour; they were chosen
// empirically, so they are exposed here rather than hard-coded.
//
// A zero value means "use the default" (see ApplyDefaults). The pointer fields
// are the ones where zero is itself meaningful: nil means "use the default", and
// an explicit 0 is kept (0 disables a cache, 0 tolerance orders only equal scores
// by price, a 0 threshold admits every token match).
type EngineSettings struct {
	MaxResults      int `json:"max_results" yaml:"max_results"`           // Top-N returned by Search
	MaxAlternatives int `json:"max_alternatives" yaml:"max_alternatives"` // Top-N returned by FindAlternatives

	QueryCacheSize        *int `json:"query_cache_size,omitempty" yaml:"query_cache_size,omitempty"`
	AlternativesCacheSize *int `json:"alternatives_cache_size,omitempty" yaml:"alternatives_cache_size,omitempty"`

	// Exact tier
	ExactTagBoost       float64 `json:"exact_tag_boost" yaml:"exact_tag_boost"`               // Whole-query equals a tag
	TagSubstringBoost   float64 `json:"tag_substring_boost" yaml:"tag_substring_boost"`       // Query and tag contain one another
	EarlyExitMinResults int     `json:"early_exit_min_results" yaml:"early_exit_min_results"` // Skip later tiers at this many results...
	EarlyExitMinScore   float64 `json:"early_exit_min_score" yaml:"early_exit_min_score"`     // ...if one of them scores at least this

	// Token tier
	TokenTagBoost      float64  `json:"token_tag_boost" yaml:"token_tag_boost"`
	TokenPostingsLimit int      `json:"token_postings_limit" yaml:"token_postings_limit"` // Postings read per token per index
	TagTokenThreshold  *float64 `json:"tag_token_threshold,omitempty" yaml:"tag_token_threshold,omitempty"`
	TokenThreshold     *float64 `json:"token_threshold,omitempty" yaml:"token_threshold,omitempty"`

	// Fuzzy tier
	FuzzyMaxResults     int     `json:"fuzzy_max_results" yaml:"fuzzy_max_results"`         // Fuzzy tier runs only below this many results
	TrigramMaxPostings  int     `json:"trigram_max_postings" yaml:"trigram_max_postings"`   // Trigrams this common are skipped
	FuzzyCandidateLimit int     `json:"fuzzy_candidate_limit" yaml:"fuzzy_candidate_limit"` // Candidate pool cap
	FuzzyTagBoost       float64 `json:"fuzzy_tag_boost" yaml:"fuzzy_tag_boost"`
	FuzzyMinScore       float64 `json:"fuzzy_min_score" yaml:"fuzzy_min_score"`     // Admission bar
	FuzzyTypedScore     float64 `json:"fuzzy_typed_score" yaml:"fuzzy_typed_score"` // Above this the field match type is kept

	// Alternatives
	AlternativesMinResults            int     `json:"alternatives_min_results" yaml:"alternatives_min_results"` // Scan fallback runs below this many
	AlternativesScanLimit             int     `json:"alternatives_scan_limit" yaml:"alternatives_scan_limit"`
	AlternativesMinSimilarity         float64 `json:"alternatives_min_similarity" yaml:"alternatives_min_similarity"`
	AlternativeIdentifierScore        float64 `json:"alternative_identifier_score" yaml:"alternative_identifier_score"`
	AlternativeTagScore               float64 `json:"alternative_tag_score" yaml:"alternative_tag_score"`
	AlternativeSimilarIdentifierScore float64 `json:"alternative_similar_identifier_score" yaml:"alternative_similar_identifier_score"`
	AlternativeSimilarTagScore        float64 `json:"alternative_similar_tag_score" yaml:"alternative_similar_tag_score"`

	// Ranking
	TieTolerance        *float64 `json:"tie_tolerance,omitempty" yaml:"tie_tolerance,omitempty"` // Scores this close are ordered by price
	SimilarityAlgorithm string   `json:"similarity_algorithm" yaml:"similarity_algorithm"`       // "trigram" or "levenshtein"
	LengthRatioCutoff   int      `json:"length_ratio_cutoff" yaml:"length_ratio_cutoff"`         // Similarity is 0 when longer > shorter*cutoff; negative disables
}

// DefaultEngineSettings returns settings with every default applied.
func DefaultEngineSettings() EngineSettings {
	var s EngineSettings
	s.ApplyDefaults()
	return s
}

// ApplyDefaults applies default values to every unset field
func (s *EngineSettings) ApplyDefaults() {
	setInt(&s.MaxResults, 20)
	setInt(&s.MaxAlternatives, 20)
	setIntPtr(&s.QueryCacheSize, 100)
	setIntPtr(&s.AlternativesCacheSize, 100)

	setFloat(&s.ExactTagBoost, 1.5)
	setFloat(&s.TagSubstringBoost, 1.4)
	setInt(&s.EarlyExitMinResults, 10)
	setFloat(&s.EarlyExitMinScore, 0.9)

	setFloat(&s.TokenTagBoost, 1.5)
	setInt(&s.TokenPostingsLimit, 20)
	setFloatPtr(&s.TagTokenThreshold, 0.5)
	setFloatPtr(&s.TokenThreshold, 0.7)

	setInt(&s.FuzzyMaxResults, 15)
	setInt(&s.TrigramMaxPostings, 100)
	setInt(&s.FuzzyCandidateLimit, 200)
	setFloat(&s.FuzzyTagBoost, 1.3)
	setFloat(&s.FuzzyMinScore, 0.5)
	setFloat(&s.FuzzyTypedScore, 0.6)

	setInt(&s.AlternativesMinResults, 10)
	setInt(&s.AlternativesScanLimit, 500)
	setFloat(&s.AlternativesMinSimilarity, 0.8)
	setFloat(&s.AlternativeIdentifierScore, 0.95)
	setFloat(&s.AlternativeTagScore, 0.9)
	setFloat(&s.AlternativeSimilarIdentifierScore, 0.85)
	setFloat(&s.AlternativeSimilarTagScore, 0.8)

	setFloatPtr(&s.TieTolerance, 0.01)
	if s.SimilarityAlgorithm == "" {
		s.SimilarityAlgorithm = SimilarityTrigram
	}
	setInt(&s.LengthRatioCutoff, 3)
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func setIntPtr(v **int, def int) {
	if *v == nil {
		*v = Ptr(def)
	}
}

func setFloatPtr(v **float64, def float64) {
	if *v == nil {
		*v = Ptr(def)
	}
}

// Ptr returns a pointer to v, for setting the optional fields of EngineSettings.
func Ptr[T any](v T) *T {
	return &v
}

// Validate returns one message per invalid setting. It expects ApplyDefaults to have run.
func (s *EngineSettings) Validate() []string {
	var errors []string

	nonNegative := map[string]int{
		"max_results":             s.MaxResults,
		"max_alternatives":        s.MaxAlternatives,
		"query_cache_size":        *s.QueryCacheSize,
		"alternatives_cache_size": *s.AlternativesCacheSize,
		"token_postings_limit":    s.TokenPostingsLimit,
		"trigram_max_postings":    s.TrigramMaxPostings,
		"fuzzy_candidate_limit":   s.FuzzyCandidateLimit,
		"alternatives_scan_limit": s.AlternativesScanLimit,
	}
	for _, name := range sortedKeys(nonNegative) {
		if nonNegative[name] < 0 {
			errors = append(errors, fmt.Sprintf("%s must not be negative (got %d)", name, nonNegative[name]))
		}
	}

	if *s.TieTolerance < 0 {
		errors = append(errors, fmt.Sprintf("tie_tolerance must not be negative (got %g)", *s.TieTolerance))
	}
	if *s.TagTokenThreshold < 0 || *s.TagTokenThreshold > 1 {
		errors = append(errors, "tag_token_threshold must be within [0, 1]")
	}
	if *s.TokenThreshold < 0 || *s.TokenThreshold > 1 {
		errors = append(errors, "token_threshold must be within [0, 1]")
	}
	if s.FuzzyTypedScore < s.FuzzyMinScore {
		errors = append(errors, "fuzzy_typed_score must be at least fuzzy_min_score")
	}
	if s.AlternativesMinSimilarity < 0 || s.AlternativesMinSimilarity > 1 {
		errors = append(errors, "alternatives_min_similarity must be within [0, 1]")
	}
	if s.SimilarityAlgorithm != SimilarityTrigram && s.SimilarityAlgorithm != SimilarityLevenshtein {
		errors = append(errors, "Invalid similarity_algorithm '"+s.SimilarityAlgorithm+"' (must be 'trigram' or 'levenshtein')")
	}

	return errors
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
