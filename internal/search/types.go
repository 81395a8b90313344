package search

import "github.com/gcbaptista/record-search/model"

// hit is a candidate accumulated while a query runs.
type hit struct {
	id        int
	score     float64
	matchType model.MatchType
}

// hitSet keeps hits in first-insertion order so ranking never depends on map iteration.
type hitSet struct {
	order []*hit
	byID  map[int]*hit
}

func newHitSet() *hitSet {
	return &hitSet{byID: make(map[int]*hit)}
}

func (hs *hitSet) has(id int) bool {
	_, ok := hs.byID[id]
	return ok
}

func (hs *hitSet) get(id int) *hit {
	return hs.byID[id]
}

// addIfAbsent inserts a hit unless id is already present, and reports whether it did.
func (hs *hitSet) addIfAbsent(id int, score float64, matchType model.MatchType) bool {
	if hs.has(id) {
		return false
	}
	h := &hit{id: id, score: score, matchType: matchType}
	hs.order = append(hs.order, h)
	hs.byID[id] = h
	return true
}

func (hs *hitSet) len() int {
	return len(hs.order)
}

// anyAtLeast reports whether some hit scores at least minScore.
func (hs *hitSet) anyAtLeast(minScore float64) bool {
	for _, h := range hs.order {
		if h.score >= minScore {
			return true
		}
	}
	return false
}
