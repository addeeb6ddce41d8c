package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/notify"
	"github.com/roach88/shopfront/internal/state"
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// table renders rows with tab-separated columns aligned.
func table(header []string, rows [][]string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// ProductList is the derived catalog printed by the products command.
type ProductList struct {
	View     state.View             `json:"view"`
	Query    string                 `json:"searchQuery"`
	Filters  catalog.FilterCriteria `json:"filterOptions"`
	Total    int                    `json:"total"`
	Products []catalog.Product      `json:"products"`
}

func (l ProductList) String() string {
	if len(l.Products) == 0 {
		return fmt.Sprintf("No products found (%d in catalog).", l.Total)
	}
	rows := make([][]string, len(l.Products))
	for i, p := range l.Products {
		rows[i] = []string{fmt.Sprint(p.ID), p.Name, money(p.Price), p.EffectiveCategory(), fmt.Sprint(p.Stock)}
	}
	return table([]string{"ID", "NAME", "PRICE", "CATEGORY", "STOCK"}, rows) +
		fmt.Sprintf("\n%d of %d products", len(l.Products), l.Total)
}

// ProductDetail is one product as printed by the product command.
type ProductDetail struct {
	catalog.Product
	InCart int `json:"inCart"`
}

func (d ProductDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", d.ID, d.Name)
	fmt.Fprintf(&b, "Price:    %s\n", money(d.Price))
	fmt.Fprintf(&b, "Category: %s\n", d.EffectiveCategory())
	fmt.Fprintf(&b, "Stock:    %d\n", d.Stock)
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Description)
	}
	if d.InCart > 0 {
		fmt.Fprintf(&b, "\nIn cart: %d\n", d.InCart)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CartView is the cart with its totals.
type CartView struct {
	Lines []catalog.CartLine `json:"lines"`
	Count int                `json:"count"`
	Total float64            `json:"total"`
}

func newCartView(s state.Snapshot) CartView {
	return CartView{
		Lines: s.Cart,
		Count: catalog.CartCount(s.Cart),
		Total: catalog.CartTotal(s.Cart),
	}
}

func (c CartView) String() string {
	if len(c.Lines) == 0 {
		return "Your cart is empty."
	}
	rows := make([][]string, len(c.Lines))
	for i, l := range c.Lines {
		rows[i] = []string{fmt.Sprint(l.ProductID), l.Name, fmt.Sprint(l.Quantity), money(l.Price), money(l.Subtotal())}
	}
	return table([]string{"ID", "NAME", "QTY", "PRICE", "SUBTOTAL"}, rows) +
		fmt.Sprintf("\n%d items, total %s", c.Count, money(c.Total))
}

// OrderList is the order history.
type OrderList struct {
	Orders []catalog.Order `json:"orders"`
}

func (l OrderList) String() string {
	if len(l.Orders) == 0 {
		return "No orders yet."
	}
	rows := make([][]string, len(l.Orders))
	for i, o := range l.Orders {
		status := o.Status
		if status == "" {
			status = "-"
		}
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		rows[i] = []string{fmt.Sprint(o.ID), o.CreatedAt, status, fmt.Sprint(items), money(o.TotalPrice)}
	}
	return table([]string{"ORDER", "PLACED", "STATUS", "ITEMS", "TOTAL"}, rows)
}

// Notice is a single message from the backend or the client.
type Notice struct {
	Message string `json:"message"`
}

func (n Notice) String() string { return n.Message }

// Receipt is the result of checkout.
type Receipt struct {
	OrderID    int64   `json:"order_id"`
	Message    string  `json:"message"`
	TotalPrice float64 `json:"total_price"`
}

func (r Receipt) String() string {
	return fmt.Sprintf("%s Your order total is %s (order #%d).", r.Message, money(r.TotalPrice), r.OrderID)
}

// ViewInfo describes the current screen.
type ViewInfo struct {
	View      state.View `json:"view"`
	Stored    state.View `json:"stored"`
	ProductID int64      `json:"productId,omitempty"`
	User      string     `json:"user,omitempty"`
	CartCount int        `json:"cartCount"`
}

func newViewInfo(s state.Snapshot) ViewInfo {
	info := ViewInfo{
		View:      state.ResolveView(s.View),
		Stored:    s.View,
		ProductID: s.ProductID,
		CartCount: catalog.CartCount(s.Cart),
	}
	if s.User != nil {
		info.User = s.User.Username
	}
	return info
}

func (v ViewInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "view: %s", v.View)
	if v.Stored != v.View {
		fmt.Fprintf(&b, " (stored %q)", v.Stored)
	}
	if v.ProductID != 0 {
		fmt.Fprintf(&b, "\nproduct: %d", v.ProductID)
	}
	if v.User != "" {
		fmt.Fprintf(&b, "\nuser: %s", v.User)
	} else {
		b.WriteString("\nuser: (not logged in)")
	}
	fmt.Fprintf(&b, "\ncart: %d items", v.CartCount)
	return b.String()
}

// NotificationLine is one push notification printed by watch.
type NotificationLine struct {
	notify.Notification
}

func (n NotificationLine) String() string {
	ts := n.Received.UTC().Format("15:04:05")
	if n.Title == "" {
		return fmt.Sprintf("%s [%s] %s", ts, n.Level, n.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", ts, n.Level, n.Title, n.Message)
}

// ScenarioReport is the outcome of the scenario command.
type ScenarioReport struct {
	Name   string         `json:"name"`
	Pass   bool           `json:"pass"`
	Errors []string       `json:"errors,omitempty"`
	Final  state.Snapshot `json:"final"`
}

func (r ScenarioReport) String() string {
	var b strings.Builder
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	fmt.Fprintf(&b, "%s %s (seq %d)\n", mark, r.Name, r.Final.Seq)
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	fmt.Fprintf(&b, "%s\n", newViewInfo(r.Final))
	fmt.Fprintf(&b, "filtered: %d of %d products\n", len(r.Final.Filtered), len(r.Final.Products))
	b.WriteString(newCartView(r.Final).String())
	return b.String()
}
