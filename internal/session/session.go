// Package session inspects the bearer tokens handed out by the backend.
//
// The backend may issue opaque tokens or JWTs. The client never holds the
// signing key, so JWTs are parsed without verification and only their
// expiry is consulted; verification is the backend's job.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status classifies a stored token.
type Status int

const (
	// Absent means no token is held.
	Absent Status = iota
	// Opaque tokens carry no readable claims and are accepted as-is.
	Opaque
	// Active is a JWT whose expiry is in the future or unset.
	Active
	// Expired is a JWT whose exp claim is in the past.
	Expired
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Opaque:
		return "opaque"
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Usable reports whether a token with this status should be kept.
func (s Status) Usable() bool {
	return s == Opaque || s == Active
}

// Inspect classifies token relative to now.
func Inspect(token string, now time.Time) Status {
	token = strings.TrimSpace(token)
	if token == "" {
		return Absent
	}
	if strings.Count(token, ".") != 2 {
		return Opaque
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Opaque
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return Expired
	}
	return Active
}

// Subject returns the sub claim of a JWT, or "" for opaque tokens.
func Subject(token string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
