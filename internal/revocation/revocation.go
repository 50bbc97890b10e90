// Package revocation implements the toggle state machine shared by every
// revocable shop-db record.
//
// A record starts Active. Each accepted toggle appends one immutable Event to its
// history; the current state always equals the last event (or Active when the
// history is empty). Records are never deleted, so revoking only excludes them
// from derived figures.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Event is one append-only audit entry.
type Event struct {
	Timestamp time.Time
	AdminID   int64
	Revoked   bool
}

// State is the revocation state of a record together with its audit trail.
type State struct {
	Revoked bool
	History []Event
}

// Toggle moves the state to revoked, attributing the change to adminID.
// Requests that would not change the state fail with shoperr.ErrStateUnchanged
// and leave the history untouched.
func (s *State) Toggle(revoked bool, adminID int64, at time.Time) (Event, error) {
	if s.Revoked == revoked {
		return Event{}, shoperr.ErrStateUnchanged
	}

	ev := Event{Timestamp: at, AdminID: adminID, Revoked: revoked}
	s.History = append(s.History, ev)
	s.Revoked = revoked

	return ev, nil
}

//go:generate mockgen -source=revocation.go -destination=store_mock.go -package=revocation

// Store persists revocation state for one kind of record. Lock must hold the
// record exclusively until the surrounding transaction ends so concurrent
// toggles on the same record serialize.
type Store interface {
	Lock(ctx context.Context, id int64) (*State, error)
	Append(ctx context.Context, id int64, ev Event) error
}

// Apply performs one toggle against st. It must run inside the transaction
// that owns st.
func Apply(ctx context.Context, st Store, id int64, revoked bool, adminID int64, at time.Time) (*State, error) {
	state, err := st.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("locking entry %d: %w", id, err)
	}

	ev, err := state.Toggle(revoked, adminID, at)
	if err != nil {
		return nil, err
	}

	if err := st.Append(ctx, id, ev); err != nil {
		return nil, fmt.Errorf("appending revoke event: %w", err)
	}

	return state, nil
}
