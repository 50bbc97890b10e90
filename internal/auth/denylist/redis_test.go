package denylist_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/auth/denylist"
)

func newDenylist(t *testing.T) (*denylist.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return denylist.New(client), mr
}

func TestRedis_AddContains(t *testing.T) {
	d, _ := newDenylist(t)
	ctx := context.Background()

	listed, err := d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, d.Add(ctx, "abc", time.Minute))

	listed, err = d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestRedis_Expires(t *testing.T) {
	d, mr := newDenylist(t)
	ctx := context.Background()

	require.NoError(t, d.Add(ctx, "abc", time.Minute))
	mr.FastForward(2 * time.Minute)

	listed, err := d.Contains(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := denylist.Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
