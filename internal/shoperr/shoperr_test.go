package shoperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/shoperr"
)

func TestField_KeepsSentinel(t *testing.T) {
	err := shoperr.Field(shoperr.ErrUnknownField, "Nonsense")

	assert.ErrorIs(t, err, shoperr.ErrUnknownField)
	assert.Contains(t, err.Error(), "Nonsense")

	e, ok := shoperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "UnknownField", e.Code)
	assert.Equal(t, shoperr.CategoryValidation, e.Category)
}

func TestIs(t *testing.T) {
	type testCase struct {
		name     string
		err      error
		category shoperr.Category
		want     bool
	}

	tests := []testCase{
		{
			name:     "WrappedNotFound",
			err:      fmt.Errorf("getting purchase: %w", shoperr.ErrEntryNotFound),
			category: shoperr.CategoryNotFound,
			want:     true,
		},
		{
			name:     "WrongCategory",
			err:      shoperr.ErrStateUnchanged,
			category: shoperr.CategoryValidation,
			want:     false,
		},
		{
			name:     "PlainError",
			err:      errors.New("db error"),
			category: shoperr.CategoryConflict,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shoperr.Is(tt.err, tt.category))
		})
	}
}
