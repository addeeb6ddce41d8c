package forms

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/catalog"
)

func assertField(t *testing.T, err error, field, message string) {
	t.Helper()
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, field, fe.Field)
	assert.Equal(t, message, fe.Message)
}

func TestRegistration(t *testing.T) {
	valid := api.Registration{Username: "ada", Email: "ada@example.com", Password: "secret"}

	tests := []struct {
		name    string
		mutate  func(r *api.Registration)
		field   string
		message string
	}{
		{"missing username", func(r *api.Registration) { r.Username = "" }, "username", "Username is required."},
		{"long username", func(r *api.Registration) { r.Username = strings.Repeat("a", 51) }, "username", "Username must be less than 50 characters."},
		{"username with space", func(r *api.Registration) { r.Username = "ada lovelace" }, "username", "Username cannot contain spaces."},
		{"missing email", func(r *api.Registration) { r.Email = "" }, "email", "Email is required."},
		{"long email", func(r *api.Registration) { r.Email = strings.Repeat("a", 95) + "@x.com" }, "email", "Email must be less than 100 characters."},
		{"malformed email", func(r *api.Registration) { r.Email = "ada@example" }, "email", "Please enter a valid email address."},
		{"email with space", func(r *api.Registration) { r.Email = "a da@example.com" }, "email", "Please enter a valid email address."},
		{"missing password", func(r *api.Registration) { r.Password = "" }, "password", "Password is required."},
		{"short password", func(r *api.Registration) { r.Password = "12345" }, "password", "Password must be at least 6 characters long."},
		{"long password", func(r *api.Registration) { r.Password = strings.Repeat("p", 256) }, "password", "Password is too long."},
		{"first failing field wins", func(r *api.Registration) { r.Username = ""; r.Password = "" }, "username", "Username is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := Registration(in)
			assertField(t, err, tt.field, tt.message)
		})
	}
}

func TestRegistration_Boundaries(t *testing.T) {
	out, err := Registration(api.Registration{
		Username: strings.Repeat("a", 50),
		Email:    "ada@example.com",
		Password: strings.Repeat("p", 255),
	})
	require.NoError(t, err)
	assert.Len(t, out.Username, 50)

	_, err = Registration(api.Registration{Username: "ada", Email: "ada@example.com", Password: "123456"})
	assert.NoError(t, err)
}

func TestRegistration_TrimsBeforeValidating(t *testing.T) {
	out, err := Registration(api.Registration{Username: " ada ", Email: " ada@example.com ", Password: " secret "})
	require.NoError(t, err)
	assert.Equal(t, "ada", out.Username)
	assert.Equal(t, "ada@example.com", out.Email)
	assert.Equal(t, " secret ", out.Password)

	_, err = Registration(api.Registration{Username: "   ", Email: "ada@example.com", Password: "secret"})
	assertField(t, err, "username", "Username is required.")

	_, err = Registration(api.Registration{Username: " " + strings.Repeat("a", 50) + " ", Email: "ada@example.com", Password: "secret"})
	assert.NoError(t, err, "surrounding spaces do not count toward the length limit")
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login(api.Credentials{Username: "ada", Password: "x"}))
	assertField(t, Login(api.Credentials{Username: "  ", Password: "x"}), "username", "Username is required.")
	assertField(t, Login(api.Credentials{Username: "ada"}), "password", "Password is required.")
}

func TestForgotPassword(t *testing.T) {
	assert.NoError(t, ForgotPassword(" ada@example.com "))
	assertField(t, ForgotPassword(""), "email", "Email is required.")
	assertField(t, ForgotPassword("nope"), "email", "Please enter a valid email address.")
}

func TestResetPassword(t *testing.T) {
	assert.NoError(t, ResetPassword("tok", "newsecret"))
	assertField(t, ResetPassword("", "newsecret"), "token", "Reset token is missing or invalid.")
	assertField(t, ResetPassword("tok", "short"), "password", "Password must be at least 6 characters long.")
}

func TestPriceRange(t *testing.T) {
	assert.NoError(t, PriceRange(catalog.PriceRange{Min: 0, Max: 1000}))
	assert.NoError(t, PriceRange(catalog.PriceRange{Min: 12.5, Max: 12.5}))
	assertField(t, PriceRange(catalog.PriceRange{Min: -1, Max: 10}), "price_range", "Prices cannot be negative.")
	assertField(t, PriceRange(catalog.PriceRange{Min: 0, Max: -10}), "price_range", "Prices cannot be negative.")
	assertField(t, PriceRange(catalog.PriceRange{Min: 50, Max: 10}), "price_range", "Minimum price cannot exceed maximum price.")
}

func TestCategories(t *testing.T) {
	products := []catalog.Product{{ID: 1, Category: "Shoes"}, {ID: 2}}
	assert.NoError(t, Categories([]string{"Shoes", "Other"}, products))
	assert.NoError(t, Categories(nil, products))
	assertField(t, Categories([]string{"Hats"}, products), "categories", "Unknown category: Hats.")
}

func TestQuantity(t *testing.T) {
	assert.NoError(t, Quantity(0))
	assert.NoError(t, Quantity(3))
	assertField(t, Quantity(-1), "quantity", "Quantity cannot be negative.")
}

func TestConcurrentChecks(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Registration(api.Registration{Username: "ada", Email: "ada@example.com", Password: "secret"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
