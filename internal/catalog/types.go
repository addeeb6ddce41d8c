package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultCategory is the category assigned to products that have none.
const DefaultCategory = "Other"

// DefaultMaxPrice is the upper bound of the default price range.
const DefaultMaxPrice = 1000

// Product is a catalog entry as served by the backend.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	Image       string     `json:"image"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// EffectiveCategory returns the product category, or DefaultCategory when unset.
func (p Product) EffectiveCategory() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// productJSON mirrors Product with loosely typed fields. The backend serializes
// decimal prices as strings and dates without a time component.
type productJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	Category    *string         `json:"category"`
	CreatedAt   *string         `json:"createdAt"`
}

// UnmarshalJSON accepts numeric or string prices and several timestamp layouts.
// A timestamp that cannot be parsed is treated as absent.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price, err := parsePrice(raw.Price)
	if err != nil {
		return fmt.Errorf("product %d: %w", raw.ID, err)
	}
	*p = Product{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       price,
		Stock:       raw.Stock,
		Image:       raw.Image,
	}
	if raw.Category != nil {
		p.Category = *raw.Category
	}
	if raw.CreatedAt != nil {
		p.CreatedAt = ParseTimestamp(*raw.CreatedAt)
	}
	return nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("price: %w", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("price %q: %w", s, err)
		}
		return v, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("price: %w", err)
	}
	return v, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
}

// ParseTimestamp parses the timestamp formats the backend is known to emit.
// Returns nil when s is empty or matches no layout.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// CartLine is one product in the cart. Name, Price and Image are captured when
// the product is first added and never refreshed.
type CartLine struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// NewCartLine snapshots p into a cart line with quantity 1.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
}

// CartTotal sums the subtotals of all lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// CartCount sums the quantities of all lines.
func CartCount(lines []CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// User is the authenticated account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a placed order as returned by the order history endpoint.
type Order struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	TotalPrice float64     `json:"total_price"`
	Status     string      `json:"status,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
	Items      []OrderItem `json:"items"`
}

// Order statuses reported by the backend.
const (
	OrderPending   = "pending"
	OrderCancelled = "cancelled"
)

// Cancellable reports whether the backend will accept a cancel request.
func (o Order) Cancellable() bool {
	return o.Status == OrderPending
}
