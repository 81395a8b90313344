package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/record-search/config"
)

type freqMap map[string]int

func (f freqMap) Count(t string) (int, bool) {
	n, ok := f[t]
	return n, ok
}

func TestTrigramScorer(t *testing.T) {
	s := &TrigramScorer{LengthRatioCutoff: 3}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"equal ignoring case", "Fever", "fEVER", 1},
		{"both empty", "", "", 1},
		{"length ratio rejection", "ab", "abcdefgh", 0},
		{"empty against non-empty", "", "abc", 0},
		{"substring", "para", "Paracetamol", 4.0 / 11.0 * 0.95},
		{"superstring", "paracetamol", "para", 4.0 / 11.0 * 0.95},
		{"three of five trigrams shared", "panadol", "panadil", 0.6},
		{"no trigrams shared", "abcd", "wxyz", 0},
		{"too short for trigrams", "ab", "cd", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Similarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTrigramScorer_RareTrigramsWeighMore(t *testing.T) {
	plain := &TrigramScorer{LengthRatioCutoff: 3}
	weighted := &TrigramScorer{
		Frequencies:       freqMap{"pan": 100},
		LengthRatioCutoff: 3,
	}

	// "pan" is shared but common, so the weighted score drops below the uniform 0.6.
	w1 := 1 / math.Log(3)
	wPan := 1 / math.Log(102)
	want := 2 * (wPan + 2*w1) / (2 * (wPan + 4*w1))

	assert.InDelta(t, 0.6, plain.Similarity("panadol", "panadil"), 1e-9)
	assert.InDelta(t, want, weighted.Similarity("panadol", "panadil"), 1e-9)
}

func TestTrigramScorer_ZeroFrequencyTreatedAsOne(t *testing.T) {
	plain := &TrigramScorer{LengthRatioCutoff: 3}
	zero := &TrigramScorer{Frequencies: freqMap{"pan": 0}, LengthRatioCutoff: 3}

	assert.InDelta(t, plain.Similarity("panadol", "panadil"), zero.Similarity("panadol", "panadil"), 1e-12)
}

func TestTrigramScorer_CutoffDisabled(t *testing.T) {
	s := &TrigramScorer{LengthRatioCutoff: -1}

	assert.InDelta(t, 2.0/10.0*0.95, s.Similarity("ab", "abcdefghij"), 1e-9)
}

func TestScorers_RangeAndSymmetry(t *testing.T) {
	scorers := map[string]Scorer{
		"trigram":     &TrigramScorer{Frequencies: freqMap{"fev": 7, "col": 2}, LengthRatioCutoff: 3},
		"levenshtein": &LevenshteinScorer{LengthRatioCutoff: 3},
	}
	words := []string{"", "a", "fever", "Fever", "cold", "common cold", "headache", "ache", "paracetamol", "panadol"}

	for name, s := range scorers {
		t.Run(name, func(t *testing.T) {
			for _, a := range words {
				for _, b := range words {
					got := s.Similarity(a, b)
					assert.GreaterOrEqual(t, got, 0.0, "%q vs %q", a, b)
					assert.LessOrEqual(t, got, 1.0, "%q vs %q", a, b)
					assert.InDelta(t, got, s.Similarity(b, a), 1e-12, "%q vs %q not symmetric", a, b)
				}
			}
		})
	}
}

func TestLevenshteinScorer(t *testing.T) {
	s := &LevenshteinScorer{LengthRatioCutoff: 3}

	assert.Equal(t, 1.0, s.Similarity("Panadol", "panadol"))
	assert.InDelta(t, 6.0/7.0, s.Similarity("panadol", "panadil"), 1e-9)
	assert.InDelta(t, 4.0/7.0, s.Similarity("kitten", "sitting"), 1e-9)
	assert.Equal(t, 0.0, s.Similarity("ab", "abcdefgh"))
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"simple substitution", "kitten", "sitten", 1},
		{"simple insertion", "apple", "applye", 1},
		{"simple deletion", "banana", "banna", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"unicode chars (same len)", "cliché", "cliche", 1},
		{"unicode chars (diff len)", "résumé", "resume", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	settings := config.DefaultEngineSettings()
	_, ok := New(settings, nil).(*TrigramScorer)
	assert.True(t, ok)

	settings.SimilarityAlgorithm = config.SimilarityLevenshtein
	_, ok = New(settings, nil).(*LevenshteinScorer)
	assert.True(t, ok)
}
