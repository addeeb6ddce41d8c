package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/state"
)

// Evaluate checks exp against a finished run and returns one message per
// failed expectation.
func Evaluate(exp *Expect, r *Result) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	snap := r.Final

	if exp.View != nil && string(snap.View) != *exp.View {
		fail("view: expected %q, got %q", *exp.View, snap.View)
	}
	if exp.ProductID != nil && snap.ProductID != *exp.ProductID {
		fail("product_id: expected %d, got %d", *exp.ProductID, snap.ProductID)
	}
	if exp.Query != nil && snap.Query != *exp.Query {
		fail("query: expected %q, got %q", *exp.Query, snap.Query)
	}
	if exp.ShowFilters != nil && snap.ShowFilters != *exp.ShowFilters {
		fail("show_filters: expected %t, got %t", *exp.ShowFilters, snap.ShowFilters)
	}
	if exp.Authenticated != nil && snap.Authenticated() != *exp.Authenticated {
		fail("authenticated: expected %t, got %t", *exp.Authenticated, snap.Authenticated())
	}
	if exp.Cart != nil {
		if got := cartLines(snap); !slices.Equal(got, *exp.Cart) {
			fail("cart: expected %v, got %v", *exp.Cart, got)
		}
	}
	if exp.CartTotal != nil && math.Abs(snap.CartTotal()-*exp.CartTotal) > 1e-9 {
		fail("cart_total: expected %.2f, got %.2f", *exp.CartTotal, snap.CartTotal())
	}
	if exp.Filtered != nil {
		if got := productIDs(snap.Filtered); !slices.Equal(got, *exp.Filtered) {
			fail("filtered: expected %v, got %v", *exp.Filtered, got)
		}
	}
	for _, k := range sortedKeys(exp.Stored) {
		got, ok := r.Stored[k]
		switch {
		case !ok:
			fail("stored[%s]: expected %q, key absent", k, exp.Stored[k])
		case got != exp.Stored[k]:
			fail("stored[%s]: expected %q, got %q", k, exp.Stored[k], got)
		}
	}
	for _, k := range exp.Absent {
		if v, ok := r.Stored[k]; ok {
			fail("stored[%s]: expected absent, got %q", k, v)
		}
	}
	if exp.Discarded != nil && r.Load.Discarded != *exp.Discarded {
		fail("discarded: expected %t, got %t", *exp.Discarded, r.Load.Discarded)
	}
	return errs
}

func cartLines(s state.Snapshot) []CartExpect {
	out := make([]CartExpect, len(s.Cart))
	for i, l := range s.Cart {
		out[i] = CartExpect{ID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

func productIDs(ps []catalog.Product) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
