package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gcbaptista/record-search/config"
	"github.com/gcbaptista/record-search/index"
	"github.com/gcbaptista/record-search/internal/similarity"
	"github.com/gcbaptista/record-search/internal/tokenizer"
	"github.com/gcbaptista/record-search/model"
	"github.com/gcbaptista/record-search/store"
)

// Service runs queries against one set of indices.
// It never writes to the indices or the item store and holds no lock of its own.
type Service struct {
	indices  *index.Indices
	items    *store.ItemStore
	settings config.EngineSettings
	scorer   similarity.Scorer
}

// NewService creates a new search Service. Settings are defaulted and validated.
func NewService(indices *index.Indices, items *store.ItemStore, settings config.EngineSettings) (*Service, error) {
	if indices == nil {
		return nil, fmt.Errorf("indices cannot be nil")
	}
	if items == nil {
		return nil, fmt.Errorf("item store cannot be nil")
	}
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid engine settings: %s", strings.Join(problems, "; "))
	}
	return &Service{
		indices:  indices,
		items:    items,
		settings: settings,
		scorer:   similarity.New(settings, indices.Trigrams),
	}, nil
}

// Settings returns the effective settings.
func (s *Service) Settings() config.EngineSettings {
	return s.settings
}

// Search ranks items against a free-text query in up to three tiers: exact keys,
// query tokens, then trigram similarity. Each tier only adds items not found by
// an earlier one. A blank query returns an empty list.
func (s *Service) Search(query string) []model.SearchResult {
	q := tokenizer.Normalize(query)
	if q == "" {
		return []model.SearchResult{}
	}

	hits := newHitSet()
	s.addExactMatches(hits, q)

	if hits.len() >= s.settings.EarlyExitMinResults && hits.anyAtLeast(s.settings.EarlyExitMinScore) {
		return s.finalize(hits, s.settings.MaxResults)
	}

	s.addTokenMatches(hits, tokenizer.Tokenize(q))

	if hits.len() < s.settings.FuzzyMaxResults {
		s.addFuzzyMatches(hits, q)
	}

	return s.finalize(hits, s.settings.MaxResults)
}

// addExactMatches looks the whole query up as a tag, then as a tag fragment,
// then as a name, identifier and brand.
func (s *Service) addExactMatches(hits *hitSet, q string) {
	for _, p := range s.indices.ExactTag.Get(q) {
		hits.addIfAbsent(p.ItemID, p.Score*s.settings.ExactTagBoost, model.MatchTypeTag)
	}

	// Partial condition phrases: the query contains a tag or a tag contains the query.
	// TODO: replace this scan with a substring index if tag cardinality grows large.
	for _, key := range s.indices.ExactTag.Keys() {
		if key == q || !(strings.Contains(q, key) || strings.Contains(key, q)) {
			continue
		}
		for _, p := range s.indices.ExactTag.Get(key) {
			hits.addIfAbsent(p.ItemID, p.Score*s.settings.TagSubstringBoost, model.MatchTypeTag)
		}
	}

	// An item whose whole name is the query is always reported as a name match.
	for _, p := range s.indices.ExactName.Get(q) {
		if hits.addIfAbsent(p.ItemID, p.Score, model.MatchTypeName) {
			continue
		}
		h := hits.get(p.ItemID)
		h.matchType = model.MatchTypeName
		h.score = max(h.score, p.Score)
	}

	for _, p := range s.indices.ExactIdentifier.Get(q) {
		hits.addIfAbsent(p.ItemID, p.Score, model.MatchTypeIdentifier)
	}
	for _, p := range s.indices.Brand.Get(q) {
		hits.addIfAbsent(p.ItemID, p.Score, model.MatchTypeBrand)
	}
}

// addTokenMatches scores items by their best token posting across the tag, name and
// identifier token indices. Candidates must clear a per-field threshold.
func (s *Service) addTokenMatches(hits *hitSet, tokens []string) {
	candidates := newHitSet()
	consider := func(list index.PostingList, boost float64, matchType model.MatchType) {
		for _, p := range list.Top(s.settings.TokenPostingsLimit) {
			score := p.Score * boost
			if candidates.addIfAbsent(p.ItemID, score, matchType) {
				continue
			}
			if c := candidates.get(p.ItemID); score > c.score {
				c.score = score
				c.matchType = matchType
			}
		}
	}

	for _, token := range tokens {
		consider(s.indices.TagToken.Get(token), s.settings.TokenTagBoost, model.MatchTypeTag)
		consider(s.indices.NameToken.Get(token), 1, model.MatchTypeName)
		consider(s.indices.IdentifierToken.Get(token), 1, model.MatchTypeIdentifier)
	}

	for _, c := range candidates.order {
		threshold := *s.settings.TokenThreshold
		if c.matchType == model.MatchTypeTag {
			threshold = *s.settings.TagTokenThreshold
		}
		if c.score > threshold {
			hits.addIfAbsent(c.id, c.score, c.matchType)
		}
	}
}

// addFuzzyMatches compares the query against the name, tags and identifiers of
// items sharing a discriminative trigram with it.
func (s *Service) addFuzzyMatches(hits *hitSet, q string) {
	seen := make(map[int]struct{})
	var candidates []int
	for _, t := range tokenizer.Trigrams(q) {
		ids := s.indices.Trigrams.IDs(t)
		if len(ids) >= s.settings.TrigramMaxPostings {
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				candidates = append(candidates, id)
			}
		}
	}
	if len(candidates) > s.settings.FuzzyCandidateLimit {
		candidates = candidates[:s.settings.FuzzyCandidateLimit]
	}

	for _, id := range candidates {
		if hits.has(id) {
			continue
		}
		item, ok := s.items.Get(id)
		if !ok {
			continue
		}

		best := s.scorer.Similarity(item.Name, q)
		bestType := model.MatchTypeName
		for _, tag := range item.Tags {
			if score := s.scorer.Similarity(tag, q) * s.settings.FuzzyTagBoost; score > best {
				best, bestType = score, model.MatchTypeTag
			}
		}
		for _, identifier := range item.Identifiers {
			if score := s.scorer.Similarity(identifier, q); score > best {
				best, bestType = score, model.MatchTypeIdentifier
			}
		}

		if best > s.settings.FuzzyMinScore {
			if best <= s.settings.FuzzyTypedScore {
				bestType = model.MatchTypeFuzzy
			}
			hits.addIfAbsent(id, best, bestType)
		}
	}
}

// finalize ranks hits and converts the top limit into results.
//
// Hits are ordered by score, then grouped: a group starts at the highest remaining
// score and takes every hit within TieTolerance of it. Inside a group cheaper items
// come first (then lower ids). Any two results are therefore either in score order
// or within the tolerance and in price order.
func (s *Service) finalize(hits *hitSet, limit int) []model.SearchResult {
	ranked := make([]*hit, len(hits.order))
	copy(ranked, hits.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	price := func(h *hit) float64 {
		item, _ := s.items.Get(h.id)
		return item.Price
	}
	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && ranked[start].score-ranked[end].score <= *s.settings.TieTolerance {
			end++
		}
		group := ranked[start:end]
		sort.SliceStable(group, func(i, j int) bool {
			pi, pj := price(group[i]), price(group[j])
			if pi != pj {
				return pi < pj
			}
			return group[i].id < group[j].id
		})
		start = end
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]model.SearchResult, 0, len(ranked))
	for _, h := range ranked {
		item, ok := s.items.Get(h.id)
		if !ok {
			continue
		}
		results = append(results, model.SearchResult{
			Item:            item.Clone(),
			RelevanceScore:  h.score,
			MatchType:       h.matchType,
			IsAlternative:   true,
			SimilarityScore: h.score,
		})
	}
	return results
}
