package maintenance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/maintenance"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

func TestMode_Set(t *testing.T) {
	ctx := context.Background()
	admin := auth.Admin{ID: 1}

	m := maintenance.New(false)
	assert.False(t, m.Enabled())

	assert.ErrorIs(t, m.Set(ctx, admin, false), shoperr.ErrNothingHasChanged)

	assert.NoError(t, m.Set(ctx, admin, true))
	assert.True(t, m.Enabled())

	assert.ErrorIs(t, m.Set(ctx, admin, true), shoperr.ErrNothingHasChanged)

	assert.NoError(t, m.Set(ctx, admin, false))
	assert.False(t, m.Enabled())
}
