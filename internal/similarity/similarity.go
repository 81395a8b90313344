// Package similarity scores how alike two strings are on a [0, 1] scale.
package similarity

import (
	"math"
	"strings"

	"github.com/gcbaptista/record-search/config"
	"github.com/gcbaptista/record-search/internal/tokenizer"
)

// Scorer computes a similarity in [0, 1]. Comparison is case-insensitive.
type Scorer interface {
	Similarity(a, b string) float64
}

// FrequencySource reports how often a trigram was seen at index time.
type FrequencySource interface {
	Count(trigram string) (int, bool)
}

// New returns the scorer selected by settings.SimilarityAlgorithm.
// Unknown algorithms fall back to the trigram scorer.
func New(settings config.EngineSettings, freq FrequencySource) Scorer {
	if settings.SimilarityAlgorithm == config.SimilarityLevenshtein {
		return &LevenshteinScorer{LengthRatioCutoff: settings.LengthRatioCutoff}
	}
	return &TrigramScorer{Frequencies: freq, LengthRatioCutoff: settings.LengthRatioCutoff}
}

// TrigramScorer is a Dice coefficient over trigram sets where each trigram is
// weighted by 1/ln(2+frequency), so rare trigrams count more than common ones.
type TrigramScorer struct {
	Frequencies       FrequencySource // nil treats every trigram as seen once
	LengthRatioCutoff int             // longer > shorter*cutoff scores 0; <= 0 disables
}

func (s *TrigramScorer) Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if score, done := shortcut(a, b, s.LengthRatioCutoff); done {
		return score
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := runeLengths(a, b)
		return float64(shorter) / float64(longer) * 0.95
	}

	trigramsA := tokenizer.DistinctTrigrams(a)
	trigramsB := tokenizer.DistinctTrigrams(b)
	if len(trigramsA) == 0 || len(trigramsB) == 0 {
		return 0
	}
	inB := make(map[string]struct{}, len(trigramsB))
	for _, t := range trigramsB {
		inB[t] = struct{}{}
	}

	// Sums run in first-occurrence order so repeated calls agree to the last bit.
	var intersection, totalA, totalB float64
	for _, t := range trigramsA {
		w := s.weight(t)
		totalA += w
		if _, ok := inB[t]; ok {
			intersection += w
		}
	}
	for _, t := range trigramsB {
		totalB += s.weight(t)
	}
	return 2 * intersection / (totalA + totalB)
}

func (s *TrigramScorer) weight(trigram string) float64 {
	freq := 1
	if s.Frequencies != nil {
		if n, ok := s.Frequencies.Count(trigram); ok && n > 0 {
			freq = n
		}
	}
	return 1 / math.Log(2+float64(freq))
}

// LevenshteinScorer scores (longer - distance) / longer.
type LevenshteinScorer struct {
	LengthRatioCutoff int
}

func (s *LevenshteinScorer) Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if score, done := shortcut(a, b, s.LengthRatioCutoff); done {
		return score
	}
	_, longer := runeLengths(a, b)
	return float64(longer-Distance(a, b)) / float64(longer)
}

// shortcut handles equal strings and wildly mismatched lengths.
func shortcut(a, b string, cutoff int) (float64, bool) {
	if a == b {
		return 1, true
	}
	shorter, longer := runeLengths(a, b)
	if cutoff > 0 && shorter*cutoff < longer {
		return 0, true
	}
	if longer == 0 {
		return 1, true
	}
	return 0, false
}

func runeLengths(a, b string) (shorter, longer int) {
	la, lb := len([]rune(a)), len([]rune(b))
	if la < lb {
		return la, lb
	}
	return lb, la
}
