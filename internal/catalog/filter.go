package catalog

import (
	"sort"

	"github.com/auracommerce/storefront/internal/models"
)

// Filter is a conjunction of per-axis predicates. Zero values disable an
// axis: empty brand/type sets mean "no filtering on that axis", not "match
// nothing", and MaxPrice 0 means no upper bound.
type Filter struct {
	Category string
	Badge    string
	MinPrice float64
	MaxPrice float64
	Brands   []string
	Types    []string
}

func (f Filter) matches(p models.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Badge != "" && p.Badge != f.Badge {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Types) > 0 && !contains(f.Types, p.Type) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// Search filters the catalog and orders the result. All sorts are stable so
// equal keys keep catalog-relative order and results stay deterministic;
// "relevance" is the identity sort.
func (c *Catalog) Search(f Filter, key SortKey) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, key)
	return out
}

func SortProducts(products []models.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Badge == models.BadgeNew && products[j].Badge != models.BadgeNew
		})
	}
}
