package model

// MatchType records which field produced a search hit.
type MatchType string

const (
	MatchTypeName       MatchType = "name"
	MatchTypeIdentifier MatchType = "identifier"
	MatchTypeTag        MatchType = "tag"
	MatchTypeBrand      MatchType = "brand"
	MatchTypeFuzzy      MatchType = "fuzzy"
)

// SearchResult is an output-only view of a ranked item.
// Item is a copy of the canonical record; the derived fields live here and
// never on the stored item.
type SearchResult struct {
	Item            Item      `json:"item"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchType       MatchType `json:"match_type"`
	IsAlternative   bool      `json:"is_alternative"`   // set on everything returned from a ranked query
	SimilarityScore float64   `json:"similarity_score"` // mirrors RelevanceScore for ranked results
}

// FilterCriteria narrows an item collection. Absent (nil or empty) criteria impose no constraint.
type FilterCriteria struct {
	PriceRange *[2]float64 `json:"price_range,omitempty" yaml:"price_range,omitempty"` // inclusive [min, max]
	Brands     []string    `json:"brands,omitempty" yaml:"brands,omitempty"`
	Tags       []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Forms      []string    `json:"forms,omitempty" yaml:"forms,omitempty"`
}

// IsEmpty reports whether the criteria would accept every item.
func (c FilterCriteria) IsEmpty() bool {
	return c.PriceRange == nil && len(c.Brands) == 0 && len(c.Tags) == 0 && len(c.Forms) == 0
}

// PriceRange is an inclusive price interval with integral bounds.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions summarises the facet values available across the indexed items.
// PriceRange is nil when there are no items.
type FilterOptions struct {
	Brands     []string    `json:"brands"`
	Tags       []string    `json:"tags"`
	PriceRange *PriceRange `json:"price_range"`
}
