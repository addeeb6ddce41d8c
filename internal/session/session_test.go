package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspect(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  Status
	}{
		{"empty", "", Absent},
		{"whitespace", "   ", Absent},
		{"opaque backend token", "mock_token_7", Opaque},
		{"three segments but not a jwt", "a.b.c", Opaque},
		{"expired jwt", signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}), Expired},
		{"live jwt", signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}), Active},
		{"jwt without exp", signed(t, jwt.RegisteredClaims{Subject: "7"}), Active},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Inspect(tt.token, now))
		})
	}
}

func TestStatusUsable(t *testing.T) {
	assert.True(t, Opaque.Usable())
	assert.True(t, Active.Usable())
	assert.False(t, Expired.Usable())
	assert.False(t, Absent.Usable())
	assert.Equal(t, "expired", Expired.String())
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "42", Subject(signed(t, jwt.RegisteredClaims{Subject: "42"})))
	assert.Equal(t, "", Subject("mock_token_42"))
}
