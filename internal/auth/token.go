package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Claims is the payload of an issued token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Token is a signed credential and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Tokens struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokens(secret string, validity time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), validity: validity, now: time.Now}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

func (t *Tokens) Issue(userID int64) (Token, error) {
	issued := t.now()
	expires := issued.Add(t.validity)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}

	return Token{Value: signed, ExpiresAt: expires}, nil
}

// Parse validates signature and expiry. Expired tokens fail with
// shoperr.ErrTokenExpired, everything else with shoperr.ErrTokenInvalid.
func (t *Tokens) Parse(value string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(value, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shoperr.ErrTokenExpired
		}

		return nil, shoperr.ErrTokenInvalid
	}

	if claims.ID == "" || claims.UserID == 0 {
		return nil, shoperr.ErrTokenInvalid
	}

	return claims, nil
}
