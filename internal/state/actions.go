package state

import (
	"github.com/roach88/shopfront/internal/catalog"
)

// Action is a message accepted by Dispatch. The set of implementations is
// closed: only types in this package can satisfy it.
type Action interface {
	// Kind names the action for logs and traces.
	Kind() string

	// reduce mutates next, a shallow copy of the previous snapshot, and
	// records persistence writes in fx. Slices reachable from next are shared
	// with the previous snapshot and must be replaced, never edited.
	reduce(next *Snapshot, fx *effects)
}

// Action kinds.
const (
	KindSetView            = "SET_VIEW"
	KindSetProducts        = "SET_PRODUCTS"
	KindSetSearchQuery     = "SET_SEARCH_QUERY"
	KindSetFilterOptions   = "SET_FILTER_OPTIONS"
	KindToggleFilters      = "TOGGLE_FILTERS"
	KindSetUser            = "SET_USER"
	KindAddToCart          = "ADD_TO_CART"
	KindUpdateCartQuantity = "UPDATE_CART_QUANTITY"
	KindRemoveFromCart     = "REMOVE_FROM_CART"
	KindClearCart          = "CLEAR_CART"
)

// SetView replaces the current view and selected product unconditionally.
// ProductID 0 clears the selection.
type SetView struct {
	View      View
	ProductID int64
}

// SetProducts replaces the catalog wholesale.
type SetProducts struct {
	Products []catalog.Product
}

// SetSearchQuery stores the lower-cased query.
type SetSearchQuery struct {
	Query string
}

// SetFilterOptions shallow-merges the provided fields into the current
// criteria. A nil field is left unchanged; PriceRange replaces both bounds
// together. Categories distinguishes nil (unchanged) from empty (clear).
type SetFilterOptions struct {
	PriceRange *catalog.PriceRange
	Categories []string
	SortBy     *catalog.SortKey
}

// ToggleFilters sets the filters-panel flag to *Value, or flips it when nil.
type ToggleFilters struct {
	Value *bool
}

// SetUser replaces the session. An empty Token logs out.
type SetUser struct {
	User  *catalog.User
	Token string
}

// AddToCart adds one unit of Product and navigates to the cart view.
type AddToCart struct {
	Product catalog.Product
}

// UpdateCartQuantity sets a line's quantity; Quantity <= 0 removes the line.
type UpdateCartQuantity struct {
	ProductID int64
	Quantity  int
}

// RemoveFromCart removes a line. Removing an absent product is a no-op.
type RemoveFromCart struct {
	ProductID int64
}

// ClearCart empties the cart.
type ClearCart struct{}

func (SetView) Kind() string            { return KindSetView }
func (SetProducts) Kind() string        { return KindSetProducts }
func (SetSearchQuery) Kind() string     { return KindSetSearchQuery }
func (SetFilterOptions) Kind() string   { return KindSetFilterOptions }
func (ToggleFilters) Kind() string      { return KindToggleFilters }
func (SetUser) Kind() string            { return KindSetUser }
func (AddToCart) Kind() string          { return KindAddToCart }
func (UpdateCartQuantity) Kind() string { return KindUpdateCartQuantity }
func (RemoveFromCart) Kind() string     { return KindRemoveFromCart }
func (ClearCart) Kind() string          { return KindClearCart }

// Bool returns a pointer to b, for ToggleFilters.
func Bool(b bool) *bool { return &b }

// Sort returns a pointer to k, for SetFilterOptions.
func Sort(k catalog.SortKey) *catalog.SortKey { return &k }
