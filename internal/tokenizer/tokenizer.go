package tokenizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWordRegex matches sequences of characters that are neither letters, digits nor underscores.
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// minTokenLength is the shortest token kept; single characters carry no signal.
const minTokenLength = 2

// Normalize case-folds and trims text. It is the key form used by every exact index.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize converts a string into a slice of lowercase tokens.
// Non-word characters act as separators and tokens shorter than two runes are dropped.
func Tokenize(text string) []string {
	lowerText := strings.ToLower(text)
	split := nonWordRegex.Split(lowerText, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if utf8.RuneCountInString(s) >= minTokenLength {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Trigrams returns every contiguous three-rune window of text, left to right,
// overlaps included. Text shorter than three runes yields an empty slice.
func Trigrams(text string) []string {
	runes := []rune(text)
	if len(runes) < 3 {
		return make([]string, 0)
	}

	trigrams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		trigrams = append(trigrams, string(runes[i:i+3]))
	}
	return trigrams
}

// DistinctTrigrams returns the trigrams of text without repeats, in order of first occurrence.
func DistinctTrigrams(text string) []string {
	trigrams := Trigrams(text)
	seen := make(map[string]struct{}, len(trigrams))
	out := trigrams[:0]
	for _, t := range trigrams {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
