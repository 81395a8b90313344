package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/record-search/internal/errors"
	fixtures "github.com/gcbaptista/record-search/internal/testing"
	"github.com/gcbaptista/record-search/model"
)

func itemIDs(items []model.Item) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func priceRange(lo, hi float64) *[2]float64 {
	return &[2]float64{lo, hi}
}

func TestFilter_PriceRangeScenario(t *testing.T) {
	got, err := Filter(fixtures.ScenarioItems(), model.FilterCriteria{PriceRange: priceRange(0, 15)})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, itemIDs(got))
}

func TestFilter_Criteria(t *testing.T) {
	items := fixtures.CatalogItems()

	tests := []struct {
		name     string
		criteria model.FilterCriteria
		want     []int
	}{
		{"inclusive bounds", model.FilterCriteria{PriceRange: priceRange(20, 42)}, []int{2, 3, 4}},
		{"brand set", model.FilterCriteria{Brands: []string{"Acme", "Cipla"}}, []int{1, 5, 7, 8}},
		{"brand is case sensitive", model.FilterCriteria{Brands: []string{"acme"}}, []int{}},
		{"tag set", model.FilterCriteria{Tags: []string{"Common Cold", "Headache"}}, []int{1, 5, 6}},
		{"form set skips items without form", model.FilterCriteria{Forms: []string{"tablet", ""}}, []int{1, 2, 3, 4}},
		{"brand and tag", model.FilterCriteria{Brands: []string{"Cipla"}, Tags: []string{"Allergy"}}, []int{5}},
		{"price and form", model.FilterCriteria{PriceRange: priceRange(0, 60), Forms: []string{"syrup"}}, []int{5}},
		{"all four", model.FilterCriteria{
			PriceRange: priceRange(0, 100),
			Brands:     []string{"Acme", "Beta", "Sanofi"},
			Tags:       []string{"Fever"},
			Forms:      []string{"tablet"},
		}, []int{1, 2, 4}},
		{"nothing matches", model.FilterCriteria{Brands: []string{"Acme"}, Tags: []string{"Cough"}}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(items, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, itemIDs(got))

			// Conjunction: exactly the items satisfying every supplied predicate.
			predicates, err := compilePredicates(tt.criteria)
			require.NoError(t, err)
			for _, item := range items {
				assert.Equal(t, matchesAll(item, predicates), containsID(got, item.ID), "item %d", item.ID)
			}
		})
	}
}

func containsID(items []model.Item, id int) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func TestFilter_EmptyCriteriaReturnsInputUnchanged(t *testing.T) {
	items := fixtures.CatalogItems()

	got, err := Filter(items, model.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, items, got)

	got, err = Filter(items, model.FilterCriteria{Brands: []string{}, Tags: nil})
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestFilter_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria model.FilterCriteria
	}{
		{"min above max", model.FilterCriteria{PriceRange: priceRange(20, 10)}},
		{"negative bound", model.FilterCriteria{PriceRange: priceRange(-1, 10)}},
		{"NaN bound", model.FilterCriteria{PriceRange: priceRange(0, math.NaN())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(fixtures.CatalogItems(), tt.criteria)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
			assert.ErrorIs(t, ValidateCriteria(tt.criteria), internalErrors.ErrInvalidInput)
		})
	}
}

func TestOptions(t *testing.T) {
	opts := Options(fixtures.CatalogItems())

	assert.Equal(t, []string{"Abbott", "Acme", "Beta", "Cipla", "Johnson", "Sanofi"}, opts.Brands)
	assert.Equal(t, []string{
		"Allergy", "Bacterial Infection", "Common Cold", "Cough", "Fever",
		"Headache", "Inflammation", "Pain Relief",
	}, opts.Tags)
	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, 5.0, opts.PriceRange.Min)
	assert.Equal(t, 120.0, opts.PriceRange.Max)
}

func TestOptions_RoundsOutward(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: "A", Brand: "X", Price: 10.75},
		{ID: 2, Name: "B", Brand: "X", Price: 98.25},
	}
	opts := Options(items)

	require.NotNil(t, opts.PriceRange)
	assert.Equal(t, model.PriceRange{Min: 10, Max: 99}, *opts.PriceRange)
	assert.Equal(t, []string{"X"}, opts.Brands)
	assert.Empty(t, opts.Tags)
}

func TestOptions_EmptyCollection(t *testing.T) {
	opts := Options(nil)

	assert.Nil(t, opts.PriceRange)
	assert.NotNil(t, opts.Brands)
	assert.Empty(t, opts.Brands)
	assert.NotNil(t, opts.Tags)
	assert.Empty(t, opts.Tags)
}
