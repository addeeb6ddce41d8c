package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roach88/shopfront/internal/catalog"
)

// Catalog returns a small product list covering every category path:
// explicit categories, an uncategorized product, equal prices and a
// product without a creation date.
func Catalog() []catalog.Product {
	at := func(day int) *time.Time {
		t := time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return []catalog.Product{
		{ID: 1, Name: "Silk Gown", Description: "Evening gown in mulberry silk", Price: 240, Stock: 3, Image: "gown.png", Category: "Dresses", CreatedAt: at(3)},
		{ID: 2, Name: "Silk Scarf", Description: "Hand-rolled edges", Price: 45, Stock: 12, Image: "scarf.png", Category: "Accessories", CreatedAt: at(9)},
		{ID: 3, Name: "Wool Coat", Description: "Double-breasted", Price: 320, Stock: 2, Image: "coat.png", Category: "Outerwear", CreatedAt: at(1)},
		{ID: 4, Name: "Linen Shirt", Description: "Relaxed fit", Price: 45, Stock: 20, Image: "shirt.png", CreatedAt: at(7)},
		{ID: 5, Name: "Leather Belt", Description: "Brass buckle", Price: 60, Stock: 8, Image: "belt.png", Category: "Accessories"},
	}
}

// Token returns an HS256-signed JWT for subject expiring at exp. The key is
// irrelevant; the client never verifies signatures.
func Token(subject string, exp time.Time) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	if err != nil {
		panic(err)
	}
	return tok
}
