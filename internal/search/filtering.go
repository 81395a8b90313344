package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/gcbaptista/record-search/internal/errors"
	"github.com/gcbaptista/record-search/model"
)

// predicate reports whether an item satisfies one criterion.
type predicate func(item model.Item) bool

// Filter returns the items satisfying every supplied criterion, in input order.
// Empty criteria return items unchanged. The price range is inclusive; brand,
// tag and form criteria are exact set membership, and an item without tags or
// form never matches a non-empty tag or form criterion.
func Filter(items []model.Item, criteria model.FilterCriteria) ([]model.Item, error) {
	predicates, err := compilePredicates(criteria)
	if err != nil {
		return nil, err
	}
	if len(predicates) == 0 {
		return items, nil
	}

	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if matchesAll(item, predicates) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// ValidateCriteria checks criteria without applying them.
func ValidateCriteria(criteria model.FilterCriteria) error {
	_, err := compilePredicates(criteria)
	return err
}

func compilePredicates(criteria model.FilterCriteria) ([]predicate, error) {
	var predicates []predicate

	if criteria.PriceRange != nil {
		lo, hi := criteria.PriceRange[0], criteria.PriceRange[1]
		if math.IsNaN(lo) || math.IsNaN(hi) {
			return nil, errors.NewValidationError("price_range", "bounds must be numbers")
		}
		if lo < 0 || hi < 0 {
			return nil, errors.NewValidationError("price_range", "bounds must not be negative")
		}
		if lo > hi {
			return nil, errors.NewValidationError("price_range", fmt.Sprintf("min %g is greater than max %g", lo, hi))
		}
		predicates = append(predicates, func(item model.Item) bool {
			return item.Price >= lo && item.Price <= hi
		})
	}

	if len(criteria.Brands) > 0 {
		brands := toSet(criteria.Brands)
		predicates = append(predicates, func(item model.Item) bool {
			_, ok := brands[item.Brand]
			return ok
		})
	}

	if len(criteria.Forms) > 0 {
		forms := toSet(criteria.Forms)
		predicates = append(predicates, func(item model.Item) bool {
			if item.Form == "" {
				return false
			}
			_, ok := forms[item.Form]
			return ok
		})
	}

	if len(criteria.Tags) > 0 {
		tags := toSet(criteria.Tags)
		predicates = append(predicates, func(item model.Item) bool {
			for _, tag := range item.Tags {
				if _, ok := tags[tag]; ok {
					return true
				}
			}
			return false
		})
	}

	return predicates, nil
}

func matchesAll(item model.Item, predicates []predicate) bool {
	for _, p := range predicates {
		if !p(item) {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Options summarises the facet values of items: sorted distinct brands, sorted
// distinct tags and the price range widened to whole numbers. PriceRange is nil
// for an empty collection.
func Options(items []model.Item) model.FilterOptions {
	brandSet := make(map[string]struct{})
	tagSet := make(map[string]struct{})
	opts := model.FilterOptions{
		Brands: make([]string, 0),
		Tags:   make([]string, 0),
	}

	for i, item := range items {
		brandSet[item.Brand] = struct{}{}
		for _, tag := range item.Tags {
			tagSet[tag] = struct{}{}
		}
		if i == 0 {
			opts.PriceRange = &model.PriceRange{Min: item.Price, Max: item.Price}
			continue
		}
		opts.PriceRange.Min = math.Min(opts.PriceRange.Min, item.Price)
		opts.PriceRange.Max = math.Max(opts.PriceRange.Max, item.Price)
	}

	for b := range brandSet {
		opts.Brands = append(opts.Brands, b)
	}
	for t := range tagSet {
		opts.Tags = append(opts.Tags, t)
	}
	sort.Strings(opts.Brands)
	sort.Strings(opts.Tags)

	if opts.PriceRange != nil {
		opts.PriceRange.Min = math.Floor(opts.PriceRange.Min)
		opts.PriceRange.Max = math.Ceil(opts.PriceRange.Max)
	}
	return opts
}
