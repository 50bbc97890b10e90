// Package maintenance holds the process-wide maintenance switch. It is set
// once at startup and afterwards changed only through Set.
package maintenance

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type Mode struct {
	enabled atomic.Bool
}

func New(enabled bool) *Mode {
	m := &Mode{}
	m.enabled.Store(enabled)

	return m
}

func (m *Mode) Enabled() bool {
	return m.enabled.Load()
}

// Set switches the mode. Setting the current value fails with
// shoperr.ErrNothingHasChanged.
func (m *Mode) Set(ctx context.Context, admin auth.Admin, enabled bool) error {
	if !m.enabled.CompareAndSwap(!enabled, enabled) {
		return shoperr.ErrNothingHasChanged
	}

	slog.InfoContext(ctx, "maintenance mode changed", "enabled", enabled, "admin_id", admin.ID)

	return nil
}
