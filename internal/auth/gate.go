package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Gate is the default Authorizer backed by signed tokens and the user store.
type Gate struct {
	tokens     *Tokens
	identities IdentityFinder
	denylist   Denylist
}

// NewGate builds a Gate. denylist may be nil when logout revocation is disabled.
func NewGate(tokens *Tokens, identities IdentityFinder, denylist Denylist) *Gate {
	return &Gate{tokens: tokens, identities: identities, denylist: denylist}
}

func (g *Gate) RequireAdmin(ctx context.Context, credential string) (Admin, error) {
	if credential == "" {
		return Admin{}, shoperr.ErrUnauthorized
	}

	claims, err := g.tokens.Parse(credential)
	if err != nil {
		return Admin{}, err
	}

	if g.denylist != nil {
		listed, err := g.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return Admin{}, fmt.Errorf("checking token denylist: %w", err)
		}

		if listed {
			return Admin{}, shoperr.ErrTokenInvalid
		}
	}

	identity, err := g.identities.FindIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shoperr.ErrEntryNotFound) {
			return Admin{}, shoperr.ErrUnauthorized
		}

		return Admin{}, fmt.Errorf("finding identity: %w", err)
	}

	if !identity.IsAdmin || !identity.Active {
		return Admin{}, shoperr.ErrUnauthorized
	}

	return Admin{ID: identity.UserID}, nil
}

func (g *Gate) Resolve(ctx context.Context, credential string) (*Admin, error) {
	if credential == "" {
		return nil, nil
	}

	admin, err := g.RequireAdmin(ctx, credential)
	if err != nil {
		if shoperr.Is(err, shoperr.CategoryAuthorization) {
			slog.DebugContext(ctx, "credential degraded to anonymous", "reason", err)
			return nil, nil
		}

		return nil, err
	}

	return &admin, nil
}
