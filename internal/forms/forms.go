package forms

import (
	"slices"
	"strings"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/catalog"
)

var (
	usernameRules = fieldRules("username",
		`!=""`, "Username is required.",
		`strings.MaxRunes(50)`, "Username must be less than 50 characters.",
		`!~ " "`, "Username cannot contain spaces.",
	)
	emailRules = fieldRules("email",
		`!=""`, "Email is required.",
		`strings.MaxRunes(100)`, "Email must be less than 100 characters.",
		`=~ "^[^\\s@]+@[^\\s@]+\\.[^\\s@]+$"`, "Please enter a valid email address.",
	)
	passwordRules = fieldRules("password",
		`!=""`, "Password is required.",
		`strings.MinRunes(6)`, "Password must be at least 6 characters long.",
		`strings.MaxRunes(255)`, "Password is too long.",
	)
	loginUsernameRules = fieldRules("username",
		`!=""`, "Username is required.",
	)
	loginPasswordRules = fieldRules("password",
		`!=""`, "Password is required.",
	)
	resetTokenRules = fieldRules("token",
		`!=""`, "Reset token is missing or invalid.",
	)
	priceRules = fieldRules("price_range",
		`{min: number & >=0, max: number}`, "Prices cannot be negative.",
		`{min: number, max: number & >=0}`, "Prices cannot be negative.",
		`{min: number, max: number & >=min}`, "Minimum price cannot exceed maximum price.",
	)
	quantityRules = fieldRules("quantity",
		`int & >=0`, "Quantity cannot be negative.",
	)
)

// Registration validates the register form and returns the trimmed values to
// submit. The password is never trimmed.
func Registration(in api.Registration) (api.Registration, error) {
	out := api.Registration{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
	if err := usernameRules.check(out.Username); err != nil {
		return api.Registration{}, err
	}
	if err := emailRules.check(out.Email); err != nil {
		return api.Registration{}, err
	}
	if err := passwordRules.check(out.Password); err != nil {
		return api.Registration{}, err
	}
	return out, nil
}

// Login validates the login form.
func Login(in api.Credentials) error {
	if err := loginUsernameRules.check(strings.TrimSpace(in.Username)); err != nil {
		return err
	}
	return loginPasswordRules.check(in.Password)
}

// ForgotPassword validates the email of a reset request.
func ForgotPassword(email string) error {
	return emailRules.check(strings.TrimSpace(email))
}

// ResetPassword validates a reset token and the new password.
func ResetPassword(token, newPassword string) error {
	if err := resetTokenRules.check(strings.TrimSpace(token)); err != nil {
		return err
	}
	return passwordRules.check(newPassword)
}

type priceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceRange validates a filter price range.
func PriceRange(r catalog.PriceRange) error {
	return priceRules.check(priceRange{Min: r.Min, Max: r.Max})
}

// Categories checks that every requested category exists in the loaded
// catalog.
func Categories(requested []string, products []catalog.Product) error {
	known := catalog.Categories(products)
	for _, c := range requested {
		if !slices.Contains(known, c) {
			return &FieldError{Field: "categories", Message: "Unknown category: " + c + "."}
		}
	}
	return nil
}

// Quantity validates a cart quantity. Zero is allowed and removes the line.
func Quantity(q int) error {
	return quantityRules.check(q)
}
