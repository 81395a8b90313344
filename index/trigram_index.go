package index

// TrigramIndex maps a trigram to the items containing it and tracks how often
// each trigram was seen, which feeds the IDF-style weights of the similarity scorer.
type TrigramIndex struct {
	Postings  map[string][]int // trigram -> item IDs in first-seen order, no duplicates
	Frequency map[string]int   // trigram -> number of indexed occurrences
}

// NewTrigramIndex creates an empty TrigramIndex.
func NewTrigramIndex() *TrigramIndex {
	return &TrigramIndex{
		Postings:  make(map[string][]int),
		Frequency: make(map[string]int),
	}
}

// Add records one occurrence of trigram in itemID.
// Items are indexed one at a time, so an item is already present exactly when it is the last entry.
func (ti *TrigramIndex) Add(trigram string, itemID int) {
	ids := ti.Postings[trigram]
	if len(ids) == 0 || ids[len(ids)-1] != itemID {
		ti.Postings[trigram] = append(ids, itemID)
	}
	ti.Frequency[trigram]++
}

// IDs returns the items containing trigram. The slice must not be modified.
func (ti *TrigramIndex) IDs(trigram string) []int {
	return ti.Postings[trigram]
}

// Count returns the occurrence count of trigram and whether it has been seen.
func (ti *TrigramIndex) Count(trigram string) (int, bool) {
	n, ok := ti.Frequency[trigram]
	return n, ok
}

// Len returns the number of distinct trigrams.
func (ti *TrigramIndex) Len() int {
	return len(ti.Postings)
}
