package indexing

import (
	"github.com/gcbaptista/record-search/index"
	"github.com/gcbaptista/record-search/internal/tokenizer"
	"github.com/gcbaptista/record-search/model"
)

// Base scores per keyed index, and the weight of the price modifier on each.
// Tags score highest since condition queries are the primary use case.
const (
	exactNameBase       = 1.0
	nameTokenBase       = 0.9
	exactIdentifierBase = 0.95
	identifierTokenBase = 0.85
	exactTagBase        = 1.0
	tagTokenBase        = 0.9
	brandBase           = 0.8

	namePriceWeight       = 0.1
	identifierPriceWeight = 0.05
	tagPriceWeight        = 0.2
	brandPriceWeight      = 0.1
)

// PriceModifier is 1/(1+price*0.001): cheaper items score marginally higher.
func PriceModifier(price float64) float64 {
	return 1.0 / (1.0 + price*0.001)
}

// posting is one keyed-index entry produced for an item.
type posting struct {
	field index.Field
	key   string
	score float64
}

// analysis is everything indexing an item writes. Computing it touches no shared
// state, so items can be analysed concurrently and applied in order afterwards.
type analysis struct {
	item     model.Item
	postings []posting
	trigrams []string // every occurrence, duplicates kept for frequency counting
}

// analyze derives the postings and trigrams of a single item.
// A key receives at most one posting per item, and blank identifiers or tags none.
func analyze(item model.Item) analysis {
	pm := PriceModifier(item.Price)
	a := analysis{item: item}
	seen := make(map[posting]struct{})

	add := func(field index.Field, key string, score float64) {
		if key == "" {
			return
		}
		dedupe := posting{field: field, key: key}
		if _, ok := seen[dedupe]; ok {
			return
		}
		seen[dedupe] = struct{}{}
		a.postings = append(a.postings, posting{field: field, key: key, score: score})
	}
	addTokens := func(field index.Field, text string, score float64) {
		for _, token := range tokenizer.Tokenize(text) {
			add(field, token, score)
			a.trigrams = append(a.trigrams, tokenizer.Trigrams(token)...)
		}
	}

	add(index.FieldExactName, tokenizer.Normalize(item.Name), exactNameBase+pm*namePriceWeight)
	addTokens(index.FieldNameToken, item.Name, nameTokenBase+pm*namePriceWeight)

	for _, identifier := range item.Identifiers {
		add(index.FieldExactIdentifier, tokenizer.Normalize(identifier), exactIdentifierBase+pm*identifierPriceWeight)
		addTokens(index.FieldIdentifierToken, identifier, identifierTokenBase+pm*identifierPriceWeight)
	}

	for _, tag := range item.Tags {
		add(index.FieldExactTag, tokenizer.Normalize(tag), exactTagBase+pm*tagPriceWeight)
		addTokens(index.FieldTagToken, tag, tagTokenBase+pm*tagPriceWeight)
	}

	add(index.FieldBrand, tokenizer.Normalize(item.Brand), brandBase+pm*brandPriceWeight)

	return a
}
