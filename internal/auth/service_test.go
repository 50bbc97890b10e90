package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

func TestService_Login(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)

	type args struct {
		userID   int64
		password string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(f *auth.MockIdentityFinder)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{userID: 3, password: "hunter22"},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).
					Return(&auth.Identity{UserID: 3, PasswordHash: hash, Active: true, Verified: true}, nil)
			},
		},
		{
			name: "UnknownUser",
			args: args{userID: 3, password: "hunter22"},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrInvalidCredentials,
		},
		{
			name: "NotVerified",
			args: args{userID: 3, password: "hunter22"},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).
					Return(&auth.Identity{UserID: 3, PasswordHash: hash, Active: true}, nil)
			},
			wantErr: shoperr.ErrUserIsNotVerified,
		},
		{
			name: "Inactive",
			args: args{userID: 3, password: "hunter22"},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).
					Return(&auth.Identity{UserID: 3, PasswordHash: hash, Verified: true}, nil)
			},
			wantErr: shoperr.ErrUserIsInactive,
		},
		{
			name: "NoPassword",
			args: args{userID: 3, password: ""},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).
					Return(&auth.Identity{UserID: 3, Active: true, Verified: true}, nil)
			},
			wantErr: shoperr.ErrInvalidCredentials,
		},
		{
			name: "WrongPassword",
			args: args{userID: 3, password: "nope"},
			setupMock: func(f *auth.MockIdentityFinder) {
				f.EXPECT().FindIdentity(gomock.Any(), int64(3)).
					Return(&auth.Identity{UserID: 3, PasswordHash: hash, Active: true, Verified: true}, nil)
			},
			wantErr: shoperr.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			finder := auth.NewMockIdentityFinder(ctrl)
			tt.setupMock(finder)

			tokens := auth.NewTokens("secret", time.Hour)
			svc := auth.NewService(finder, tokens, nil)

			tok, err := svc.Login(context.Background(), tt.args.userID, tt.args.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			claims, err := tokens.Parse(tok.Value)
			require.NoError(t, err)
			assert.Equal(t, tt.args.userID, claims.UserID)
		})
	}
}

func TestService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokens := auth.NewTokens("secret", time.Hour)

	tok, err := tokens.Issue(3)
	require.NoError(t, err)

	denylist := auth.NewMockDenylist(ctrl)
	denylist.EXPECT().
		Add(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, ttl time.Duration) error {
			assert.NotEmpty(t, id)
			assert.Greater(t, ttl, 59*time.Minute)
			return nil
		})

	svc := auth.NewService(nil, tokens, denylist)
	assert.NoError(t, svc.Logout(context.Background(), tok.Value))
}

func TestService_LogoutInvalid(t *testing.T) {
	svc := auth.NewService(nil, auth.NewTokens("secret", time.Hour), nil)
	assert.ErrorIs(t, svc.Logout(context.Background(), "garbage"), shoperr.ErrTokenInvalid)
}
