package model

// Item is a single searchable record. Items are owned by the engine once indexed
// and are never modified by search or filter operations; results carry copies.
type Item struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Identifiers []string `json:"identifiers" yaml:"identifiers"` // e.g. active components
	Tags        []string `json:"tags" yaml:"tags"`               // e.g. conditions or categories, may be empty
	Brand       string   `json:"brand" yaml:"brand"`
	Price       float64  `json:"price" yaml:"price"`
	Form        string   `json:"form,omitempty" yaml:"form,omitempty"`
	Strength    string   `json:"strength,omitempty" yaml:"strength,omitempty"`
}

// Clone returns a deep copy of the item so callers cannot reach the stored slices.
func (it Item) Clone() Item {
	out := it
	if it.Identifiers != nil {
		out.Identifiers = append([]string(nil), it.Identifiers...)
	}
	if it.Tags != nil {
		out.Tags = append([]string(nil), it.Tags...)
	}
	return out
}

// HasTag reports whether the item carries the given tag (exact, case-sensitive).
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
