package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

func TestGate_RequireAdmin(t *testing.T) {
	tokens := auth.NewTokens("secret", 15*time.Minute).WithClock(fixedClock(now))

	tok, err := tokens.Issue(1)
	require.NoError(t, err)

	type testCase struct {
		name       string
		credential string
		setupMock  func(f *auth.MockIdentityFinder, d *auth.MockDenylist)
		want       auth.Admin
		wantErr    error
	}

	tests := []testCase{
		{
			name:       "Admin",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder, d *auth.MockDenylist) {
				d.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(false, nil)
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).
					Return(&auth.Identity{UserID: 1, IsAdmin: true, Active: true, Verified: true}, nil)
			},
			want: auth.Admin{ID: 1},
		},
		{
			name:       "MissingCredential",
			credential: "",
			wantErr:    shoperr.ErrUnauthorized,
		},
		{
			name:       "Malformed",
			credential: "abc",
			wantErr:    shoperr.ErrTokenInvalid,
		},
		{
			name:       "Denylisted",
			credential: tok.Value,
			setupMock: func(_ *auth.MockIdentityFinder, d *auth.MockDenylist) {
				d.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: shoperr.ErrTokenInvalid,
		},
		{
			name:       "NotAdmin",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder, d *auth.MockDenylist) {
				d.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(false, nil)
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).
					Return(&auth.Identity{UserID: 1, Active: true, Verified: true}, nil)
			},
			wantErr: shoperr.ErrUnauthorized,
		},
		{
			name:       "InactiveAdmin",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder, d *auth.MockDenylist) {
				d.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(false, nil)
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).
					Return(&auth.Identity{UserID: 1, IsAdmin: true, Verified: true}, nil)
			},
			wantErr: shoperr.ErrUnauthorized,
		},
		{
			name:       "UnknownUser",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder, d *auth.MockDenylist) {
				d.EXPECT().Contains(gomock.Any(), gomock.Any()).Return(false, nil)
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			finder := auth.NewMockIdentityFinder(ctrl)
			denylist := auth.NewMockDenylist(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(finder, denylist)
			}

			gate := auth.NewGate(tokens, finder, denylist)
			got, err := gate.RequireAdmin(context.Background(), tt.credential)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_RequireAdminExpired(t *testing.T) {
	issued, err := auth.NewTokens("secret", time.Minute).WithClock(fixedClock(now)).Issue(1)
	require.NoError(t, err)

	later := auth.NewTokens("secret", time.Minute).WithClock(fixedClock(now.Add(time.Hour)))
	gate := auth.NewGate(later, nil, nil)

	_, err = gate.RequireAdmin(context.Background(), issued.Value)
	assert.ErrorIs(t, err, shoperr.ErrTokenExpired)
}

func TestGate_Resolve(t *testing.T) {
	tokens := auth.NewTokens("secret", 15*time.Minute).WithClock(fixedClock(now))

	tok, err := tokens.Issue(1)
	require.NoError(t, err)

	type testCase struct {
		name       string
		credential string
		setupMock  func(f *auth.MockIdentityFinder)
		want       *auth.Admin
		wantErr    bool
	}

	tests := []testCase{
		{
			name:       "Anonymous",
			credential: "",
		},
		{
			name:       "InvalidDegrades",
			credential: "garbage",
		},
		{
			name:       "NonAdminDegrades",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).
					Return(&auth.Identity{UserID: 1, Active: true}, nil)
			},
		},
		{
			name:       "Admin",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).
					Return(&auth.Identity{UserID: 1, IsAdmin: true, Active: true}, nil)
			},
			want: &auth.Admin{ID: 1},
		},
		{
			name:       "StoreFailure",
			credential: tok.Value,
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(1)).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			finder := auth.NewMockIdentityFinder(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(finder)
			}

			gate := auth.NewGate(tokens, finder, nil)
			got, err := gate.Resolve(context.Background(), tt.credential)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
