package config

import (
	"testing"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	var s EngineSettings
	s.ApplyDefaults()

	if s.MaxResults != 20 {
		t.Errorf("MaxResults = %d, want 20", s.MaxResults)
	}
	if *s.QueryCacheSize != 100 || *s.AlternativesCacheSize != 100 {
		t.Errorf("cache sizes = %d/%d, want 100/100", *s.QueryCacheSize, *s.AlternativesCacheSize)
	}
	if s.ExactTagBoost != 1.5 || s.TagSubstringBoost != 1.4 {
		t.Errorf("exact tier boosts = %g/%g, want 1.5/1.4", s.ExactTagBoost, s.TagSubstringBoost)
	}
	if *s.TagTokenThreshold != 0.5 || *s.TokenThreshold != 0.7 {
		t.Errorf("token thresholds = %g/%g, want 0.5/0.7", *s.TagTokenThreshold, *s.TokenThreshold)
	}
	if s.TrigramMaxPostings != 100 || s.FuzzyCandidateLimit != 200 {
		t.Errorf("fuzzy caps = %d/%d, want 100/200", s.TrigramMaxPostings, s.FuzzyCandidateLimit)
	}
	if s.SimilarityAlgorithm != SimilarityTrigram {
		t.Errorf("SimilarityAlgorithm = %q, want %q", s.SimilarityAlgorithm, SimilarityTrigram)
	}
	if *s.TieTolerance != 0.01 {
		t.Errorf("TieTolerance = %g, want 0.01", *s.TieTolerance)
	}
}

func TestApplyDefaults_KeepsExplicitZeros(t *testing.T) {
	s := EngineSettings{
		QueryCacheSize:    Ptr(0),
		TieTolerance:      Ptr(0.0),
		TagTokenThreshold: Ptr(0.0),
		TokenThreshold:    Ptr(0.0),
	}
	s.ApplyDefaults()
	s.ApplyDefaults()

	if *s.QueryCacheSize != 0 {
		t.Errorf("QueryCacheSize = %d, want 0 (caching disabled)", *s.QueryCacheSize)
	}
	if *s.AlternativesCacheSize != 100 {
		t.Errorf("AlternativesCacheSize = %d, want default 100", *s.AlternativesCacheSize)
	}
	if *s.TieTolerance != 0 || *s.TagTokenThreshold != 0 || *s.TokenThreshold != 0 {
		t.Errorf("explicit zeros replaced: tolerance=%g tag=%g token=%g", *s.TieTolerance, *s.TagTokenThreshold, *s.TokenThreshold)
	}
	if errors := s.Validate(); len(errors) != 0 {
		t.Errorf("explicit zeros should be valid, got %v", errors)
	}
}

func TestApplyDefaults_DoesNotShareDefaults(t *testing.T) {
	a := DefaultEngineSettings()
	b := DefaultEngineSettings()
	*a.TieTolerance = 0.5

	if *b.TieTolerance != 0.01 {
		t.Errorf("TieTolerance of an unrelated settings value changed to %g", *b.TieTolerance)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	s := EngineSettings{
		MaxResults:          5,
		ExactTagBoost:       2,
		SimilarityAlgorithm: SimilarityLevenshtein,
		LengthRatioCutoff:   -1,
	}
	s.ApplyDefaults()

	if s.MaxResults != 5 {
		t.Errorf("MaxResults = %d, want 5", s.MaxResults)
	}
	if s.ExactTagBoost != 2 {
		t.Errorf("ExactTagBoost = %g, want 2", s.ExactTagBoost)
	}
	if s.SimilarityAlgorithm != SimilarityLevenshtein {
		t.Errorf("SimilarityAlgorithm = %q", s.SimilarityAlgorithm)
	}
	if s.LengthRatioCutoff != -1 {
		t.Errorf("LengthRatioCutoff = %d, want -1 (disabled)", s.LengthRatioCutoff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(s *EngineSettings)
		expectedErrors int
	}{
		{
			name:           "defaults are valid",
			mutate:         func(s *EngineSettings) {},
			expectedErrors: 0,
		},
		{
			name:           "negative cache size",
			mutate:         func(s *EngineSettings) { s.QueryCacheSize = Ptr(-1) },
			expectedErrors: 1,
		},
		{
			name: "negative limits are each reported",
			mutate: func(s *EngineSettings) {
				s.TokenPostingsLimit = -1
				s.AlternativesScanLimit = -5
			},
			expectedErrors: 2,
		},
		{
			name:           "unknown similarity algorithm",
			mutate:         func(s *EngineSettings) { s.SimilarityAlgorithm = "cosine" },
			expectedErrors: 1,
		},
		{
			name: "typed score below admission bar",
			mutate: func(s *EngineSettings) {
				s.FuzzyMinScore = 0.7
				s.FuzzyTypedScore = 0.6
			},
			expectedErrors: 1,
		},
		{
			name:           "similarity bar out of range",
			mutate:         func(s *EngineSettings) { s.AlternativesMinSimilarity = 1.5 },
			expectedErrors: 1,
		},
		{
			name:           "negative tie tolerance",
			mutate:         func(s *EngineSettings) { s.TieTolerance = Ptr(-0.1) },
			expectedErrors: 1,
		},
		{
			name:           "token threshold above one",
			mutate:         func(s *EngineSettings) { s.TokenThreshold = Ptr(1.2) },
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultEngineSettings()
			tt.mutate(&s)
			errors := s.Validate()
			if len(errors) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(errors), errors)
			}
		})
	}
}
