package harness

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/state"
	"github.com/roach88/shopfront/internal/testutil"
)

// Step action names.
const (
	ActionSetView            = "set_view"
	ActionSetProducts        = "set_products"
	ActionSetSearchQuery     = "set_search_query"
	ActionSetFilterOptions   = "set_filter_options"
	ActionToggleFilters      = "toggle_filters"
	ActionSetUser            = "set_user"
	ActionAddToCart          = "add_to_cart"
	ActionUpdateCartQuantity = "update_cart_quantity"
	ActionRemoveFromCart     = "remove_from_cart"
	ActionClearCart          = "clear_cart"
)

type productArgs struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Stock       int     `yaml:"stock"`
	Image       string  `yaml:"image"`
	Category    string  `yaml:"category"`
	CreatedAt   string  `yaml:"created_at"`
}

func (p productArgs) product() catalog.Product {
	return catalog.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Category:    p.Category,
		CreatedAt:   catalog.ParseTimestamp(p.CreatedAt),
	}
}

type setViewArgs struct {
	View      string `yaml:"view"`
	ProductID int64  `yaml:"product_id"`
}

type setProductsArgs struct {
	// Fixture loads testutil.Catalog() when set to "catalog".
	Fixture  string        `yaml:"fixture"`
	Products []productArgs `yaml:"products"`
}

type setSearchQueryArgs struct {
	Query string `yaml:"query"`
}

type setFilterOptionsArgs struct {
	MinPrice   *float64  `yaml:"min_price"`
	MaxPrice   *float64  `yaml:"max_price"`
	Categories *[]string `yaml:"categories"`
	SortBy     *string   `yaml:"sort_by"`
}

type toggleFiltersArgs struct {
	Value *bool `yaml:"value"`
}

type userArgs struct {
	ID       int64  `yaml:"id"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
}

type setUserArgs struct {
	User  *userArgs `yaml:"user"`
	Token string    `yaml:"token"`
}

type cartLineArgs struct {
	ProductID int64 `yaml:"product_id"`
	Quantity  int   `yaml:"quantity"`
}

// decodeArgs re-encodes the loosely typed args and decodes them strictly
// into out.
func decodeArgs(args map[string]any, out any) error {
	if len(args) == 0 {
		return nil
	}
	data, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

// decodeAction converts a step into a store action.
func decodeAction(step Step) (state.Action, error) {
	switch step.Action {
	case ActionSetView:
		var a setViewArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		if a.ProductID < 0 {
			return nil, fmt.Errorf("set_view: product_id cannot be negative")
		}
		return state.SetView{View: state.View(a.View), ProductID: a.ProductID}, nil

	case ActionSetProducts:
		var a setProductsArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		var products []catalog.Product
		switch a.Fixture {
		case "":
		case "catalog":
			products = testutil.Catalog()
		default:
			return nil, fmt.Errorf("set_products: unknown fixture %q", a.Fixture)
		}
		for _, p := range a.Products {
			products = append(products, p.product())
		}
		return state.SetProducts{Products: products}, nil

	case ActionSetSearchQuery:
		var a setSearchQueryArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		return state.SetSearchQuery{Query: a.Query}, nil

	case ActionSetFilterOptions:
		var a setFilterOptionsArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		var out state.SetFilterOptions
		if (a.MinPrice == nil) != (a.MaxPrice == nil) {
			return nil, fmt.Errorf("set_filter_options: min_price and max_price must be given together")
		}
		if a.MinPrice != nil {
			out.PriceRange = &catalog.PriceRange{Min: *a.MinPrice, Max: *a.MaxPrice}
		}
		if a.Categories != nil {
			out.Categories = append([]string{}, (*a.Categories)...)
		}
		if a.SortBy != nil {
			key, err := catalog.ParseSortKey(*a.SortBy)
			if err != nil {
				return nil, fmt.Errorf("set_filter_options: %w", err)
			}
			out.SortBy = &key
		}
		return out, nil

	case ActionToggleFilters:
		var a toggleFiltersArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		return state.ToggleFilters{Value: a.Value}, nil

	case ActionSetUser:
		var a setUserArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		out := state.SetUser{Token: a.Token}
		if a.User != nil {
			out.User = &catalog.User{ID: a.User.ID, Username: a.User.Username, Email: a.User.Email}
		}
		return out, nil

	case ActionAddToCart:
		var a productArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		return state.AddToCart{Product: a.product()}, nil

	case ActionUpdateCartQuantity:
		var a cartLineArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		return state.UpdateCartQuantity{ProductID: a.ProductID, Quantity: a.Quantity}, nil

	case ActionRemoveFromCart:
		var a cartLineArgs
		if err := decodeArgs(step.Args, &a); err != nil {
			return nil, err
		}
		return state.RemoveFromCart{ProductID: a.ProductID}, nil

	case ActionClearCart:
		if len(step.Args) != 0 {
			return nil, fmt.Errorf("clear_cart takes no args")
		}
		return state.ClearCart{}, nil

	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
}
