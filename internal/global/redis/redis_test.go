package redis

import (
	"context"
	"testing"

	"team-recruit/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestOpenDisabled(t *testing.T) {
	client, err := Open(context.Background(), config.Redis{})
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), config.Redis{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	v, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", v)
}
