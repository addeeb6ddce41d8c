package api

import (
	"github.com/roach88/shopfront/internal/catalog"
)

// Registration is the /add_user request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registered is the /add_user response.
type Registered struct {
	Message string       `json:"message"`
	User    catalog.User `json:"user"`
}

// Credentials is the /login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the /login response.
type LoginResult struct {
	User        catalog.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// OrderRequest is the /place_order request body.
type OrderRequest struct {
	UserID int64              `json:"user_id"`
	Items  []OrderRequestItem `json:"items"`
}

// OrderRequestItem is one line of an OrderRequest.
type OrderRequestItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderReceipt is the /place_order response.
type OrderReceipt struct {
	OrderID    int64   `json:"order_id"`
	Message    string  `json:"message"`
	TotalPrice float64 `json:"total_price"`
}

// NewOrderRequest builds the order body for user from the cart lines.
func NewOrderRequest(user catalog.User, cart []catalog.CartLine) OrderRequest {
	items := make([]OrderRequestItem, len(cart))
	for i, l := range cart {
		items[i] = OrderRequestItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
		}
	}
	return OrderRequest{UserID: user.ID, Items: items}
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

type forgotPasswordBody struct {
	Email string `json:"email"`
}

type resetPasswordBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
