package indexing

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/gcbaptista/record-search/index"
	"github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/internal/logger"
	"github.com/gcbaptista/record-search/model"
	"github.com/gcbaptista/record-search/store"
)

// Service writes items into the keyed indices, the trigram index and the item store.
// It holds no lock: the engine serialises writers against readers.
type Service struct {
	indices *index.Indices
	items   *store.ItemStore
	bulk    BulkIndexingConfig
	logger  *slog.Logger
}

// NewService creates a new indexing Service.
func NewService(indices *index.Indices, items *store.ItemStore) (*Service, error) {
	if indices == nil {
		return nil, fmt.Errorf("indices cannot be nil")
	}
	if items == nil {
		return nil, fmt.Errorf("item store cannot be nil")
	}
	return &Service{
		indices: indices,
		items:   items,
		bulk:    DefaultBulkIndexingConfig(),
		logger:  logger.WithComponent("indexing"),
	}, nil
}

// SetBulkConfig replaces the configuration used by Build for large collections.
func (s *Service) SetBulkConfig(cfg BulkIndexingConfig) {
	s.bulk = cfg
}

// Build indexes an initial collection. Collections larger than one bulk batch
// are analysed in parallel; the result is identical to indexing them one by one.
func (s *Service) Build(items []model.Item) error {
	start := time.Now()
	var err error
	if len(items) > s.bulk.BatchSize {
		err = NewBulkIndexer(s, s.bulk).BulkAddItems(items)
	} else {
		err = s.addItems(items)
	}
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	s.logger.Info("index built", "items", len(items), "duration", time.Since(start))
	return nil
}

// Append indexes additional items, merging their postings into existing lists.
// Only keys touched by the new items are re-sorted. An empty batch is a no-op.
func (s *Service) Append(items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	start := time.Now()
	if err := s.addItems(items); err != nil {
		return fmt.Errorf("appending items: %w", err)
	}
	s.logger.Info("items appended", "items", len(items), "total", s.items.Len(), "duration", time.Since(start))
	return nil
}

func (s *Service) addItems(items []model.Item) error {
	if err := s.Validate(items); err != nil {
		return err
	}
	for _, item := range items {
		s.apply(analyze(item))
	}
	sorted := s.indices.Commit()
	s.logger.Debug("postings committed", "keys_sorted", sorted)
	return nil
}

// Validate checks a batch before anything is written: IDs must be new and unique
// within the batch, name and brand must be present, and price a finite non-negative number.
func (s *Service) Validate(items []model.Item) error {
	batch := make(map[int]struct{}, len(items))
	for _, item := range items {
		if s.items.Has(item.ID) {
			return errors.NewDuplicateItemError(item.ID)
		}
		if _, dup := batch[item.ID]; dup {
			return errors.NewDuplicateItemError(item.ID)
		}
		batch[item.ID] = struct{}{}

		if strings.TrimSpace(item.Name) == "" {
			return errors.NewValidationError("name", fmt.Sprintf("item %d has an empty name", item.ID))
		}
		if strings.TrimSpace(item.Brand) == "" {
			return errors.NewValidationError("brand", fmt.Sprintf("item %d has an empty brand", item.ID))
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return errors.NewValidationError("price", fmt.Sprintf("item %d has invalid price %v", item.ID, item.Price))
		}
	}
	return nil
}

// apply writes one analysed item. Items must be applied in a fixed order for
// posting lists with equal scores to come out the same.
func (s *Service) apply(a analysis) {
	id := a.item.ID
	for _, p := range a.postings {
		s.indices.Keyed(p.field).Add(p.key, id, p.score)
	}
	for _, t := range a.trigrams {
		s.indices.Trigrams.Add(t, id)
	}
	s.items.Put(a.item.Clone())
}
