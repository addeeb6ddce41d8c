package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/state"
)

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\ndescription: d\nsteps: []\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)
	assert.Empty(t, s.Steps)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown top-level field", "name: a\ndescription: b\nstep: []\n", "failed to parse YAML"},
		{"missing name", "description: b\n", "name is required"},
		{"missing description", "name: a\n", "description is required"},
		{"unknown action", "name: a\ndescription: b\nsteps: [{action: checkout}]\n", `unknown action "checkout"`},
		{"missing action", "name: a\ndescription: b\nsteps: [{args: {}}]\n", "action is required"},
		{"unknown arg", "name: a\ndescription: b\nsteps: [{action: set_view, args: {veiw: cart}}]\n", "decode args"},
		{"wrong arg type", "name: a\ndescription: b\nsteps: [{action: remove_from_cart, args: {product_id: abc}}]\n", "decode args"},
		{"half price range", "name: a\ndescription: b\nsteps: [{action: set_filter_options, args: {min_price: 5}}]\n", "must be given together"},
		{"bad sort", "name: a\ndescription: b\nsteps: [{action: set_filter_options, args: {sort_by: cheapest}}]\n", "set_filter_options"},
		{"unknown fixture", "name: a\ndescription: b\nsteps: [{action: set_products, args: {fixture: nope}}]\n", "unknown fixture"},
		{"clear_cart with args", "name: a\ndescription: b\nsteps: [{action: clear_cart, args: {all: true}}]\n", "takes no args"},
		{"unknown storage key", "name: a\ndescription: b\nstorage: {basket: x}\n", `unknown key "basket"`},
		{"unknown stored key", "name: a\ndescription: b\nexpect: {stored: {basket: x}}\n", `unknown key "basket"`},
		{"negative product id", "name: a\ndescription: b\nsteps: [{action: set_view, args: {view: product, product_id: -1}}]\n", "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want state.Action
	}{
		{
			"set_view",
			Step{Action: ActionSetView, Args: map[string]any{"view": "product", "product_id": 3}},
			state.SetView{View: state.ViewProduct, ProductID: 3},
		},
		{
			"set_filter_options clears categories",
			Step{Action: ActionSetFilterOptions, Args: map[string]any{"categories": []any{}}},
			state.SetFilterOptions{Categories: []string{}},
		},
		{
			"set_filter_options full",
			Step{Action: ActionSetFilterOptions, Args: map[string]any{
				"min_price": 10, "max_price": 20.5, "categories": []any{"A"}, "sort_by": "newest",
			}},
			state.SetFilterOptions{
				PriceRange: &catalog.PriceRange{Min: 10, Max: 20.5},
				Categories: []string{"A"},
				SortBy:     state.Sort(catalog.SortNewest),
			},
		},
		{
			"toggle_filters explicit",
			Step{Action: ActionToggleFilters, Args: map[string]any{"value": false}},
			state.ToggleFilters{Value: state.Bool(false)},
		},
		{
			"set_user logout",
			Step{Action: ActionSetUser},
			state.SetUser{},
		},
		{
			"update_cart_quantity",
			Step{Action: ActionUpdateCartQuantity, Args: map[string]any{"product_id": 4, "quantity": 0}},
			state.UpdateCartQuantity{ProductID: 4, Quantity: 0},
		},
		{
			"add_to_cart with date",
			Step{Action: ActionAddToCart, Args: map[string]any{"id": 2, "name": "Scarf", "price": 45, "created_at": "2026-01-09"}},
			state.AddToCart{Product: catalog.Product{ID: 2, Name: "Scarf", Price: 45, CreatedAt: catalog.ParseTimestamp("2026-01-09")}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeAction(tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAction_ProductsFixtureAndInline(t *testing.T) {
	got, err := decodeAction(Step{Action: ActionSetProducts, Args: map[string]any{
		"fixture":  "catalog",
		"products": []any{map[string]any{"id": 99, "name": "Extra", "price": 1}},
	}})
	require.NoError(t, err)

	sp, ok := got.(state.SetProducts)
	require.True(t, ok)
	require.Len(t, sp.Products, 6)
	assert.Equal(t, int64(99), sp.Products[5].ID)
}
