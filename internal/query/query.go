// Package query computes the visible product subset for display.
package query

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mulebuy/internal/model"
)

// Options selects and orders the visible subset.
type Options struct {
	List   model.List // zero value keeps all lists
	Search string     // free-text substring match, case-insensitive
	Tag    string     // exact tag membership, empty keeps all
	Sort   model.SortKey
}

// String sort keys use locale-aware ordering.
var collator = collate.New(language.Und, collate.Loose)

// Visible filters and sorts products according to opts. All filters apply
// conjunctively. The function is pure: the input slice is never mutated,
// and identical inputs produce identical output including tie order, since
// the sort is stable over the original relative order.
func Visible(products []model.Product, opts Options) []model.Product {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if opts.List != "" && p.List != opts.List {
			continue
		}
		if opts.Tag != "" && !p.HasTag(opts.Tag) {
			continue
		}
		if search != "" && !strings.Contains(haystack(p), search) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, opts.Sort)
	return out
}

// haystack is the lower-cased concatenation of every searchable field.
func haystack(p model.Product) string {
	parts := []string{
		p.Title, p.Notes, string(p.ShopType), p.ExternalID,
		p.Seller, p.Size, p.ReferralCode, p.PartnerURL,
	}
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func sortProducts(products []model.Product, key model.SortKey) {
	var less func(a, b model.Product) bool
	switch key {
	case model.SortOldest:
		less = func(a, b model.Product) bool { return a.CreatedAt < b.CreatedAt }
	case model.SortTitleAsc:
		less = func(a, b model.Product) bool { return collator.CompareString(a.Title, b.Title) < 0 }
	case model.SortTitleDesc:
		less = func(a, b model.Product) bool { return collator.CompareString(a.Title, b.Title) > 0 }
	case model.SortPriceAsc:
		less = func(a, b model.Product) bool { return price(a) < price(b) }
	case model.SortPriceDesc:
		less = func(a, b model.Product) bool { return price(a) > price(b) }
	case model.SortShop:
		less = func(a, b model.Product) bool {
			return collator.CompareString(string(a.ShopType), string(b.ShopType)) < 0
		}
	default: // SortNewest
		less = func(a, b model.Product) bool { return a.CreatedAt > b.CreatedAt }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

// price coerces the free-form price string to a number, treating anything
// non-numeric or empty as 0.
func price(p model.Product) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.Price), 64)
	if err != nil {
		return 0
	}
	return v
}
