package search

import (
	"github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/internal/tokenizer"
	"github.com/gcbaptista/record-search/model"
)

// FindAlternatives returns other items related to the item with the given id:
// first those sharing an exact identifier or tag, then, while fewer than
// AlternativesMinResults were found, items from a bounded prefix of the collection
// whose identifiers or tags are similar. The item itself is never included.
func (s *Service) FindAlternatives(id int) ([]model.SearchResult, error) {
	item, ok := s.items.Get(id)
	if !ok {
		return nil, errors.NewItemNotFoundError(id)
	}

	hits := newHitSet()
	for _, identifier := range item.Identifiers {
		for _, p := range s.indices.ExactIdentifier.Get(tokenizer.Normalize(identifier)) {
			if p.ItemID != id {
				hits.addIfAbsent(p.ItemID, s.settings.AlternativeIdentifierScore, model.MatchTypeIdentifier)
			}
		}
	}
	for _, tag := range item.Tags {
		for _, p := range s.indices.ExactTag.Get(tokenizer.Normalize(tag)) {
			if p.ItemID != id {
				hits.addIfAbsent(p.ItemID, s.settings.AlternativeTagScore, model.MatchTypeTag)
			}
		}
	}

	if hits.len() < s.settings.AlternativesMinResults {
		for _, candidate := range s.items.Prefix(s.settings.AlternativesScanLimit) {
			if candidate.ID == id || hits.has(candidate.ID) {
				continue
			}
			switch {
			case s.anySimilar(item.Identifiers, candidate.Identifiers):
				hits.addIfAbsent(candidate.ID, s.settings.AlternativeSimilarIdentifierScore, model.MatchTypeIdentifier)
			case s.anySimilar(item.Tags, candidate.Tags):
				hits.addIfAbsent(candidate.ID, s.settings.AlternativeSimilarTagScore, model.MatchTypeTag)
			}
		}
	}

	return s.finalize(hits, s.settings.MaxAlternatives), nil
}

// anySimilar reports whether some pair across a and b is more similar than AlternativesMinSimilarity.
func (s *Service) anySimilar(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if s.scorer.Similarity(x, y) > s.settings.AlternativesMinSimilarity {
				return true
			}
		}
	}
	return false
}
