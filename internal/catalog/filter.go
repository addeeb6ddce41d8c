package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SortKey selects the ordering of the filtered catalog.
type SortKey string

// Sort keys. SortNone keeps catalog order.
const (
	SortNone      SortKey = ""
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNewest    SortKey = "newest"
)

// SortKeys lists the keys accepted by ParseSortKey, in display order.
var SortKeys = []SortKey{SortPriceLow, SortPriceHigh, SortNewest}

// ParseSortKey converts user input to a SortKey. "none" and "" map to SortNone.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortNone, "none":
		return SortNone, nil
	case SortPriceLow, SortPriceHigh, SortNewest:
		return k, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q: must be one of %v", s, SortKeys)
	}
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether Min <= price <= Max.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterCriteria is the user-controlled part of the catalog view.
// An empty Categories set means no category restriction.
type FilterCriteria struct {
	PriceRange PriceRange `json:"priceRange" yaml:"price_range"`
	Categories []string   `json:"categories" yaml:"categories"`
	SortBy     SortKey    `json:"sortBy" yaml:"sort_by"`
}

// DefaultCriteria returns the criteria a fresh session starts with.
func DefaultCriteria(maxPrice float64) FilterCriteria {
	return FilterCriteria{
		PriceRange: PriceRange{Min: 0, Max: maxPrice},
		Categories: []string{},
		SortBy:     SortNone,
	}
}

// Clone returns a copy that shares no memory with c.
func (c FilterCriteria) Clone() FilterCriteria {
	out := c
	out.Categories = append([]string{}, c.Categories...)
	return out
}

// LowerQuery lower-cases a raw search query the way it is stored in the
// snapshot. Input is NFC-normalized first so composed and decomposed forms
// compare equal.
func LowerQuery(raw string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(raw))
}

// Apply computes the derived catalog for (products, query, criteria).
// The result is a new slice; products is not modified.
func Apply(products []Product, query string, c FilterCriteria) []Product {
	out := make([]Product, 0, len(products))

	var m matcher
	if query != "" {
		m = newMatcher(query)
	}

	var categories map[string]bool
	if len(c.Categories) > 0 {
		categories = make(map[string]bool, len(c.Categories))
		for _, cat := range c.Categories {
			categories[cat] = true
		}
	}

	for _, p := range products {
		if m.active() && !m.match(p) {
			continue
		}
		if categories != nil && !categories[p.EffectiveCategory()] {
			continue
		}
		if !c.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, c.SortBy)
	return out
}

// matcher performs case-insensitive substring matching on name and
// description. A Caser is stateful, so each matcher owns its own.
type matcher struct {
	fold   cases.Caser
	needle string
	on     bool
}

func newMatcher(query string) matcher {
	m := matcher{fold: cases.Fold(), on: true}
	m.needle = m.fold.String(norm.NFC.String(query))
	return m
}

func (m matcher) active() bool { return m.on }

func (m matcher) match(p Product) bool {
	return strings.Contains(m.fold.String(norm.NFC.String(p.Name)), m.needle) ||
		strings.Contains(m.fold.String(norm.NFC.String(p.Description)), m.needle)
}

func sortProducts(ps []Product, key SortKey) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceHigh:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortNewest:
		sort.SliceStable(ps, func(i, j int) bool { return newer(ps[i], ps[j]) })
	}
}

// newer orders by creation time descending. Products without a timestamp
// sort as the oldest.
func newer(a, b Product) bool {
	switch {
	case a.CreatedAt == nil:
		return false
	case b.CreatedAt == nil:
		return true
	default:
		return a.CreatedAt.After(*b.CreatedAt)
	}
}

// Categories returns the distinct effective categories of products in first
// appearance order.
func Categories(products []Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		c := p.EffectiveCategory()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// PriceCeiling returns the highest price in products, or 0 for an empty list.
func PriceCeiling(products []Product) float64 {
	var max float64
	for _, p := range products {
		if p.Price > max {
			max = p.Price
		}
	}
	return max
}

// Find returns the product with the given id.
func Find(products []Product, id int64) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
