package state

import (
	"github.com/roach88/shopfront/internal/catalog"
)

// Snapshot is the complete UI-visible state at one point in time.
type Snapshot struct {
	// Seq is stamped by the store's clock on every dispatch.
	Seq int64 `json:"seq"`

	View View `json:"view"`

	// ProductID is the selected product, 0 when none. Product ids are positive.
	ProductID int64 `json:"productId,omitempty"`

	Products []catalog.Product `json:"products"`

	// Filtered is derived from (Products, Query, Filters). Never set directly.
	Filtered []catalog.Product `json:"filteredProducts"`

	// Query is stored lower-cased.
	Query string `json:"searchQuery"`

	Filters     catalog.FilterCriteria `json:"filterOptions"`
	ShowFilters bool                   `json:"showFilters"`

	User *catalog.User `json:"user"`

	// Token is the session token, "" when not logged in.
	Token string `json:"token,omitempty"`

	Cart []catalog.CartLine `json:"cart"`
}

// Initial returns the default snapshot for a fresh session.
func Initial(maxPrice float64) Snapshot {
	return Snapshot{
		View:     DefaultView,
		Products: []catalog.Product{},
		Filtered: []catalog.Product{},
		Filters:  catalog.DefaultCriteria(maxPrice),
		Cart:     []catalog.CartLine{},
	}
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Products = cloneProducts(s.Products)
	out.Filtered = cloneProducts(s.Filtered)
	out.Filters = s.Filters.Clone()
	out.Cart = append([]catalog.CartLine{}, s.Cart...)
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

func cloneProducts(ps []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(ps))
	for i, p := range ps {
		if p.CreatedAt != nil {
			t := *p.CreatedAt
			p.CreatedAt = &t
		}
		out[i] = p
	}
	return out
}

// Authenticated reports whether both a user and a session token are held.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// CartTotal is the sum of cart line subtotals.
func (s Snapshot) CartTotal() float64 {
	return catalog.CartTotal(s.Cart)
}

// CartLine returns the cart line for productID.
func (s Snapshot) CartLine(productID int64) (catalog.CartLine, bool) {
	for _, l := range s.Cart {
		if l.ProductID == productID {
			return l, true
		}
	}
	return catalog.CartLine{}, false
}

// SelectedProduct returns the catalog entry for ProductID.
func (s Snapshot) SelectedProduct() (catalog.Product, bool) {
	if s.ProductID == 0 {
		return catalog.Product{}, false
	}
	return catalog.Find(s.Products, s.ProductID)
}
