// Package auth resolves callers to administrator principals.
//
// Every ledger mutation takes an Admin obtained from an Authorizer; services never
// accept an administrator id supplied by the caller.
package auth

import (
	"context"
	"time"
)

// Admin is the authenticated administrator a mutation is attributed to.
type Admin struct {
	ID int64
}

// Identity is what the gate needs to know about a user.
type Identity struct {
	UserID       int64
	PasswordHash []byte
	IsAdmin      bool
	Active       bool
	Verified     bool
}

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth

// IdentityFinder looks up users by id. It returns shoperr.ErrEntryNotFound for
// unknown ids.
type IdentityFinder interface {
	FindIdentity(ctx context.Context, userID int64) (*Identity, error)
}

// Denylist remembers token ids that were logged out before they expired.
type Denylist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// Authorizer is the gate in front of every mutating and admin-only operation.
type Authorizer interface {
	// RequireAdmin fails unless credential belongs to an active administrator.
	RequireAdmin(ctx context.Context, credential string) (Admin, error)
	// Resolve returns nil for anonymous callers, bad credentials and non-admins.
	// Only infrastructure failures are returned as errors.
	Resolve(ctx context.Context, credential string) (*Admin, error)
}
