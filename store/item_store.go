package store

import (
	"github.com/gcbaptista/record-search/model"
)

// ItemStore is the canonical id -> item table. It also remembers insertion order,
// which bounded scans (and snapshots) walk. Items are append-only.
type ItemStore struct {
	Items map[int]model.Item
	Order []int
}

// NewItemStore creates an empty ItemStore.
func NewItemStore() *ItemStore {
	return &ItemStore{
		Items: make(map[int]model.Item),
	}
}

// Put stores an item. It reports false, leaving the store unchanged, if the id is already present.
func (s *ItemStore) Put(item model.Item) bool {
	if _, exists := s.Items[item.ID]; exists {
		return false
	}
	s.Items[item.ID] = item
	s.Order = append(s.Order, item.ID)
	return true
}

// Get returns the stored item for id.
func (s *ItemStore) Get(id int) (model.Item, bool) {
	item, ok := s.Items[id]
	return item, ok
}

// Has reports whether id is stored.
func (s *ItemStore) Has(id int) bool {
	_, ok := s.Items[id]
	return ok
}

// Len returns the number of stored items.
func (s *ItemStore) Len() int {
	return len(s.Order)
}

// Prefix returns up to n items in insertion order. A non-positive n returns all items.
func (s *ItemStore) Prefix(n int) []model.Item {
	if n <= 0 || n > len(s.Order) {
		n = len(s.Order)
	}
	items := make([]model.Item, 0, n)
	for _, id := range s.Order[:n] {
		items = append(items, s.Items[id])
	}
	return items
}

// All returns every item in insertion order.
func (s *ItemStore) All() []model.Item {
	return s.Prefix(0)
}
