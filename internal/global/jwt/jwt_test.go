package jwt

import (
	"testing"

	"team-recruit/config"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Set(&config.Config{JWT: config.JWT{AccessSecret: "secret", AccessExpire: 60}})
	t.Cleanup(func() { config.Set(&config.Config{}) })

	token, err := CreateToken(Payload{UserID: "admin", RoleID: 2})
	require.NoError(t, err)

	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, "admin", claims.UserID)
	require.Equal(t, 2, claims.RoleID)

	_, ok = ParseToken(token + "x")
	require.False(t, ok)
}

func TestExpiredToken(t *testing.T) {
	config.Set(&config.Config{JWT: config.JWT{AccessSecret: "secret", AccessExpire: -60}})
	t.Cleanup(func() { config.Set(&config.Config{}) })

	token, err := CreateToken(Payload{UserID: "admin", RoleID: 2})
	require.NoError(t, err)
	_, ok := ParseToken(token)
	require.False(t, ok)
}

func TestParseWithoutSecret(t *testing.T) {
	config.Set(&config.Config{})
	_, ok := ParseToken("a.b.c")
	require.False(t, ok)
}
