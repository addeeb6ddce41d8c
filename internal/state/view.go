package state

import "slices"

// View identifies the screen the UI layer renders.
type View string

// Known views.
const (
	ViewHome           View = "home"
	ViewProduct        View = "product"
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewCart           View = "cart"
	ViewOrders         View = "orders"
	ViewCategory       View = "category"
	ViewForgotPassword View = "forgot-password"
	ViewResetPassword  View = "reset-password"
)

// DefaultView is where consumers fall back for unknown views.
const DefaultView = ViewHome

// Views lists the known views.
var Views = []View{
	ViewHome, ViewProduct, ViewLogin, ViewRegister, ViewCart,
	ViewOrders, ViewCategory, ViewForgotPassword, ViewResetPassword,
}

// Known reports whether v is one of Views.
func (v View) Known() bool {
	return slices.Contains(Views, v)
}

// ResolveView returns v if known, DefaultView otherwise.
// The store itself accepts any view; this is for the rendering side.
func ResolveView(v View) View {
	if v.Known() {
		return v
	}
	return DefaultView
}
