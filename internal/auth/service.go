package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Service issues and withdraws credentials.
type Service struct {
	identities IdentityFinder
	tokens     *Tokens
	denylist   Denylist
	now        func() time.Time
}

func NewService(identities IdentityFinder, tokens *Tokens, denylist Denylist) *Service {
	return &Service{identities: identities, tokens: tokens, denylist: denylist, now: time.Now}
}

// Login checks the password of a verified, active user and issues a token.
func (s *Service) Login(ctx context.Context, userID int64, password string) (Token, error) {
	identity, err := s.identities.FindIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, shoperr.ErrEntryNotFound) {
			return Token{}, shoperr.ErrInvalidCredentials
		}

		return Token{}, fmt.Errorf("finding identity: %w", err)
	}

	if !identity.Verified {
		return Token{}, shoperr.ErrUserIsNotVerified
	}

	if !identity.Active {
		return Token{}, shoperr.ErrUserIsInactive
	}

	if len(identity.PasswordHash) == 0 {
		return Token{}, shoperr.ErrInvalidCredentials
	}

	ok, err := CheckPassword(identity.PasswordHash, password)
	if err != nil {
		return Token{}, err
	}

	if !ok {
		return Token{}, shoperr.ErrInvalidCredentials
	}

	return s.tokens.Issue(identity.UserID)
}

// Logout denylists credential until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, credential string) error {
	claims, err := s.tokens.Parse(credential)
	if err != nil {
		return err
	}

	if s.denylist == nil {
		slog.WarnContext(ctx, "logout without denylist, token stays valid until expiry", "user_id", claims.UserID)
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.denylist.Add(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("denylisting token: %w", err)
	}

	return nil
}
