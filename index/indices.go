package index

// Field names the keyed indices kept for every item.
type Field string

const (
	FieldExactName       Field = "exact_name"
	FieldNameToken       Field = "name_token"
	FieldExactIdentifier Field = "exact_identifier"
	FieldIdentifierToken Field = "identifier_token"
	FieldExactTag        Field = "exact_tag"
	FieldTagToken        Field = "tag_token"
	FieldBrand           Field = "brand"
)

// AllFields lists the keyed indices in a fixed order.
var AllFields = []Field{
	FieldExactName,
	FieldNameToken,
	FieldExactIdentifier,
	FieldIdentifierToken,
	FieldExactTag,
	FieldTagToken,
	FieldBrand,
}

// Indices owns the seven keyed indices and the trigram index of one engine.
type Indices struct {
	ExactName       *InvertedIndex
	NameToken       *InvertedIndex
	ExactIdentifier *InvertedIndex
	IdentifierToken *InvertedIndex
	ExactTag        *InvertedIndex
	TagToken        *InvertedIndex
	Brand           *InvertedIndex
	Trigrams        *TrigramIndex
}

// NewIndices creates an empty set of indices.
func NewIndices() *Indices {
	return &Indices{
		ExactName:       NewInvertedIndex(string(FieldExactName)),
		NameToken:       NewInvertedIndex(string(FieldNameToken)),
		ExactIdentifier: NewInvertedIndex(string(FieldExactIdentifier)),
		IdentifierToken: NewInvertedIndex(string(FieldIdentifierToken)),
		ExactTag:        NewInvertedIndex(string(FieldExactTag)),
		TagToken:        NewInvertedIndex(string(FieldTagToken)),
		Brand:           NewInvertedIndex(string(FieldBrand)),
		Trigrams:        NewTrigramIndex(),
	}
}

// Keyed returns the keyed index for field, or nil for an unknown field.
func (ix *Indices) Keyed(field Field) *InvertedIndex {
	switch field {
	case FieldExactName:
		return ix.ExactName
	case FieldNameToken:
		return ix.NameToken
	case FieldExactIdentifier:
		return ix.ExactIdentifier
	case FieldIdentifierToken:
		return ix.IdentifierToken
	case FieldExactTag:
		return ix.ExactTag
	case FieldTagToken:
		return ix.TagToken
	case FieldBrand:
		return ix.Brand
	}
	return nil
}

// Commit sorts every key touched since the previous Commit, across all keyed indices,
// and returns the number of keys sorted.
func (ix *Indices) Commit() int {
	sorted := 0
	for _, f := range AllFields {
		sorted += ix.Keyed(f).Commit()
	}
	return sorted
}

// KeyCounts returns the number of distinct keys per keyed index plus "trigram".
func (ix *Indices) KeyCounts() map[string]int {
	counts := make(map[string]int, len(AllFields)+1)
	for _, f := range AllFields {
		counts[string(f)] = ix.Keyed(f).Len()
	}
	counts["trigram"] = ix.Trigrams.Len()
	return counts
}
