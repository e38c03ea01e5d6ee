// Package listing narrows and orders product lists on the client.
// Every function returns a fresh slice and leaves its input untouched.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/shelf/internal/catalog"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

var sortCycle = []SortKey{SortName, SortPriceAsc, SortPriceDesc, SortRating}

// ParseSortKey maps a user supplied value onto a SortKey. Unknown values
// fall back to SortName.
func ParseSortKey(value string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if slices.Contains(sortCycle, key) {
		return key
	}
	return SortName
}

// Next returns the key after k in display order, wrapping around.
func (k SortKey) Next() SortKey {
	idx := slices.Index(sortCycle, ParseSortKey(string(k)))
	return sortCycle[(idx+1)%len(sortCycle)]
}

// Label is the human readable name of the ordering.
func (k SortKey) Label() string {
	switch ParseSortKey(string(k)) {
	case SortPriceAsc:
		return "Price: low to high"
	case SortPriceDesc:
		return "Price: high to low"
	case SortRating:
		return "Top rated"
	default:
		return "Name"
	}
}

// Filter keeps products whose title contains searchTerm, ignoring case, and
// whose category equals category exactly. An empty searchTerm matches every
// title and an empty category matches every category.
func Filter(items []catalog.Product, searchTerm, category string) []catalog.Product {
	needle := strings.ToLower(searchTerm)
	out := make([]catalog.Product, 0, len(items))
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Title), needle) {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Sort returns a copy of items ordered by key.
func Sort(items []catalog.Product, key SortKey) []catalog.Product {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []catalog.Product{}
	}

	switch ParseSortKey(string(key)) {
	case SortPriceAsc:
		slices.SortFunc(sorted, func(a, b catalog.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortFunc(sorted, func(a, b catalog.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortRating:
		slices.SortFunc(sorted, func(a, b catalog.Product) int {
			switch {
			case a.Rating.Rate > b.Rating.Rate:
				return -1
			case a.Rating.Rate < b.Rating.Rate:
				return 1
			}
			return 0
		})
	default:
		// Collators keep internal buffers; one per call.
		col := collate.New(language.English)
		slices.SortFunc(sorted, func(a, b catalog.Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
	return sorted
}

// Query bundles the filter and sort inputs of a listing view.
type Query struct {
	Search   string
	Category string
	Sort     SortKey
}

// Apply filters items and then sorts the survivors.
func (q Query) Apply(items []catalog.Product) []catalog.Product {
	return Sort(Filter(items, q.Search, q.Category), q.Sort)
}
