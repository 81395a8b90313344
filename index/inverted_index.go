package index

import (
	"sort"
)

// InvertedIndex maps a case-folded key to the items matching it, sorted by score.
//
// Writes go through Add and become visible in sorted form after Commit, which
// re-sorts only the keys touched since the previous Commit. The index has no
// lock of its own; the engine serialises writers against readers.
type InvertedIndex struct {
	Name       string
	Index      map[string]PostingList
	sortedKeys []string
	dirty      map[string]struct{}
}

// NewInvertedIndex creates an empty index. Name is used in logs and stats only.
func NewInvertedIndex(name string) *InvertedIndex {
	return &InvertedIndex{
		Name:  name,
		Index: make(map[string]PostingList),
		dirty: make(map[string]struct{}),
	}
}

// Add appends a posting for key. The list for key is unsorted until Commit.
func (ii *InvertedIndex) Add(key string, itemID int, score float64) {
	ii.Index[key] = append(ii.Index[key], Posting{ItemID: itemID, Score: score})
	ii.dirty[key] = struct{}{}
}

// Commit re-sorts every key touched since the last Commit and returns how many were sorted.
func (ii *InvertedIndex) Commit() int {
	if len(ii.dirty) == 0 {
		return 0
	}

	var newKeys []string
	for key := range ii.dirty {
		ii.Index[key].Sort()
		if !ii.hasSortedKey(key) {
			newKeys = append(newKeys, key)
		}
	}
	if len(newKeys) > 0 {
		ii.sortedKeys = append(ii.sortedKeys, newKeys...)
		sort.Strings(ii.sortedKeys)
	}

	touched := len(ii.dirty)
	ii.dirty = make(map[string]struct{})
	return touched
}

func (ii *InvertedIndex) hasSortedKey(key string) bool {
	i := sort.SearchStrings(ii.sortedKeys, key)
	return i < len(ii.sortedKeys) && ii.sortedKeys[i] == key
}

// Get returns the postings for key, or nil.
func (ii *InvertedIndex) Get(key string) PostingList {
	return ii.Index[key]
}

// Keys returns all keys in ascending order. The slice must not be modified.
func (ii *InvertedIndex) Keys() []string {
	return ii.sortedKeys
}

// Len returns the number of distinct keys.
func (ii *InvertedIndex) Len() int {
	return len(ii.Index)
}

// PostingCount returns the total number of postings across all keys.
func (ii *InvertedIndex) PostingCount() int {
	total := 0
	for _, pl := range ii.Index {
		total += len(pl)
	}
	return total
}
