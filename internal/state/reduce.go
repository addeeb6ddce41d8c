package state

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/persist"
)

// Write is a persistence side effect produced by the reducer.
type Write struct {
	Key    string
	Value  string
	Delete bool
}

func (w Write) String() string {
	if w.Delete {
		return "delete " + w.Key
	}
	return fmt.Sprintf("set %s=%s", w.Key, w.Value)
}

// effects collects writes produced while reducing one action.
type effects struct {
	writes []Write
	errs   []error
}

func (fx *effects) set(key, value string) {
	fx.writes = append(fx.writes, Write{Key: key, Value: value})
}

func (fx *effects) del(key string) {
	fx.writes = append(fx.writes, Write{Key: key, Delete: true})
}

func (fx *effects) setJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		fx.errs = append(fx.errs, fmt.Errorf("encode %s: %w", key, err))
		return
	}
	fx.set(key, string(data))
}

// Reduce applies a to prev and returns the next snapshot and the writes that
// mirror it to storage. prev is not modified. A nil action returns prev
// unchanged with no writes. Seq is left for the caller to stamp.
func Reduce(prev Snapshot, a Action) (Snapshot, []Write) {
	next, fx := reduce(prev, a)
	return next, fx.writes
}

func reduce(prev Snapshot, a Action) (Snapshot, effects) {
	var fx effects
	if a == nil {
		return prev, fx
	}
	next := prev
	a.reduce(&next, &fx)
	return next, fx
}

// refilter recomputes the derived catalog from the current inputs.
func refilter(s *Snapshot) {
	s.Filtered = catalog.Apply(s.Products, s.Query, s.Filters)
}

func (a SetView) reduce(s *Snapshot, fx *effects) {
	s.View = a.View
	s.ProductID = a.ProductID

	fx.set(persist.KeyView, string(a.View))
	if a.ProductID != 0 {
		fx.set(persist.KeyProductID, strconv.FormatInt(a.ProductID, 10))
	} else {
		fx.del(persist.KeyProductID)
	}
}

func (a SetProducts) reduce(s *Snapshot, _ *effects) {
	s.Products = cloneProducts(a.Products)
	refilter(s)
}

func (a SetSearchQuery) reduce(s *Snapshot, _ *effects) {
	s.Query = catalog.LowerQuery(a.Query)
	refilter(s)
}

func (a SetFilterOptions) reduce(s *Snapshot, _ *effects) {
	f := s.Filters.Clone()
	if a.PriceRange != nil {
		f.PriceRange = *a.PriceRange
	}
	if a.Categories != nil {
		f.Categories = append([]string{}, a.Categories...)
	}
	if a.SortBy != nil {
		f.SortBy = *a.SortBy
	}
	s.Filters = f
	refilter(s)
}

func (a ToggleFilters) reduce(s *Snapshot, _ *effects) {
	if a.Value != nil {
		s.ShowFilters = *a.Value
		return
	}
	s.ShowFilters = !s.ShowFilters
}

func (a SetUser) reduce(s *Snapshot, fx *effects) {
	if a.User != nil {
		u := *a.User
		s.User = &u
	} else {
		s.User = nil
	}
	s.Token = a.Token

	if a.Token != "" {
		fx.set(persist.KeyToken, a.Token)
		fx.setJSON(persist.KeyUser, s.User)
	} else {
		fx.del(persist.KeyToken)
		fx.del(persist.KeyUser)
	}
}

func (a AddToCart) reduce(s *Snapshot, fx *effects) {
	cart := make([]catalog.CartLine, 0, len(s.Cart)+1)
	found := false
	for _, l := range s.Cart {
		if l.ProductID == a.Product.ID {
			l.Quantity++
			found = true
		}
		cart = append(cart, l)
	}
	if !found {
		cart = append(cart, catalog.NewCartLine(a.Product))
	}
	s.Cart = cart
	s.View = ViewCart

	fx.setJSON(persist.KeyCart, s.Cart)
	fx.set(persist.KeyView, string(ViewCart))
}

func (a UpdateCartQuantity) reduce(s *Snapshot, fx *effects) {
	cart := make([]catalog.CartLine, 0, len(s.Cart))
	for _, l := range s.Cart {
		if l.ProductID == a.ProductID {
			if a.Quantity <= 0 {
				continue
			}
			l.Quantity = a.Quantity
		}
		cart = append(cart, l)
	}
	s.Cart = cart

	fx.setJSON(persist.KeyCart, s.Cart)
}

func (a RemoveFromCart) reduce(s *Snapshot, fx *effects) {
	cart := make([]catalog.CartLine, 0, len(s.Cart))
	for _, l := range s.Cart {
		if l.ProductID != a.ProductID {
			cart = append(cart, l)
		}
	}
	s.Cart = cart

	fx.setJSON(persist.KeyCart, s.Cart)
}

func (ClearCart) reduce(s *Snapshot, fx *effects) {
	s.Cart = []catalog.CartLine{}

	fx.setJSON(persist.KeyCart, s.Cart)
}
