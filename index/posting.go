package index

import "sort"

// Posting records that an item matched a key, with the precomputed score of that match.
type Posting struct {
	ItemID int     // Caller-assigned item ID
	Score  float64 // Field weight plus a small price bonus, fixed at index time
}

// PostingList is a slice of Posting kept sorted by Score descending,
// so callers can take the first n entries as the top n.
// Equal scores keep their insertion order.
type PostingList []Posting

// Sort orders the list by Score descending. It is stable.
func (pl PostingList) Sort() {
	sort.SliceStable(pl, func(i, j int) bool {
		return pl[i].Score > pl[j].Score
	})
}

// Top returns at most n leading postings. A non-positive n returns the whole list.
func (pl PostingList) Top(n int) PostingList {
	if n <= 0 || n >= len(pl) {
		return pl
	}
	return pl[:n]
}

// Contains reports whether the list holds a posting for itemID.
func (pl PostingList) Contains(itemID int) bool {
	for _, p := range pl {
		if p.ItemID == itemID {
			return true
		}
	}
	return false
}
