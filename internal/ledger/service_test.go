package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/catalog"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/revocation"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

var (
	admin = auth.Admin{ID: 1}
	now   = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
)

func verifiedUser(id int64) *catalog.User {
	return &catalog.User{ID: id, Active: true, VerifiedAt: &now}
}

func newService(t *testing.T) (*ledger.Service, *ledger.MockRepository, *ledger.MockTx) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	tx := ledger.NewMockTx(ctrl)

	return ledger.NewService(repo).WithClock(func() time.Time { return now }), repo, tx
}

func TestService_CreatePurchase(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.PurchaseParams
		setupMock func(repo *ledger.MockRepository, tx *ledger.MockTx)
		wantErr   error
	}

	beginTx := func(repo *ledger.MockRepository, tx *ledger.MockTx) {
		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().Rollback().Return(nil)
	}

	tests := []testCase{
		{
			name:   "SnapshotsPrice",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 2},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(verifiedUser(2), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(3)).
					Return(&catalog.Product{ID: 3, Active: true, Price: 150}, nil)
				tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e ledger.Entry) error {
						e.Base().ID = 10
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:    "ZeroAmount",
			params:  ledger.PurchaseParams{UserID: 2, ProductID: 3},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name:   "UnknownUser",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrEntryNotFound,
		},
		{
			name:   "UnverifiedUser",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(&catalog.User{ID: 2, Active: true}, nil)
			},
			wantErr: shoperr.ErrUserIsNotVerified,
		},
		{
			name:   "InactiveUser",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(&catalog.User{ID: 2, VerifiedAt: &now}, nil)
			},
			wantErr: shoperr.ErrUserIsInactive,
		},
		{
			name:   "InactiveProduct",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(verifiedUser(2), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(3)).Return(&catalog.Product{ID: 3, Price: 150}, nil)
			},
			wantErr: shoperr.ErrEntryIsInactive,
		},
		{
			name:   "CommitConflict",
			params: ledger.PurchaseParams{UserID: 2, ProductID: 3, Amount: 1},
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(verifiedUser(2), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(3)).
					Return(&catalog.Product{ID: 3, Active: true, Price: 150}, nil)
				tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(errors.New("serialization failure"))
			},
			wantErr: shoperr.ErrCouldNotCreateEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			got, err := svc.CreatePurchase(context.Background(), admin, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(10), got.ID)
			assert.Equal(t, int64(150), got.ProductPrice)
			assert.Equal(t, int64(300), got.Value())
			assert.Equal(t, admin.ID, got.AdminID)
			assert.Equal(t, now, got.Timestamp)
			assert.False(t, got.Revoked)
		})
	}
}

func TestService_CreateDeposit(t *testing.T) {
	svc, repo, tx := newService(t)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback().Return(nil)
	tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(verifiedUser(2), nil)
	tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)

	got, err := svc.CreateDeposit(context.Background(), admin, ledger.DepositParams{UserID: 2, Amount: -150, Comment: "typo"})
	require.NoError(t, err)
	assert.Equal(t, int64(-150), got.Value())
	assert.Equal(t, "typo", got.Comment)

	_, err = svc.CreateDeposit(context.Background(), admin, ledger.DepositParams{UserID: 2})
	assert.ErrorIs(t, err, shoperr.ErrInvalidAmount)
}

func TestService_CreateRefund_InactiveUserAllowed(t *testing.T) {
	svc, repo, tx := newService(t)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback().Return(nil)
	tx.EXPECT().GetUser(gomock.Any(), int64(2)).Return(&catalog.User{ID: 2}, nil)
	tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)

	got, err := svc.CreateRefund(context.Background(), admin, ledger.RefundParams{UserID: 2, TotalPrice: 400})
	require.NoError(t, err)
	assert.Equal(t, int64(400), got.Value())
}

func TestService_CreatePayoffTurnover(t *testing.T) {
	svc, repo, tx := newService(t)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil).Times(2)
	tx.EXPECT().Rollback().Return(nil).Times(2)
	tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	tx.EXPECT().Commit().Return(nil).Times(2)

	payoff, err := svc.CreatePayoff(context.Background(), admin, ledger.AmountParams{Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, ledger.KindPayoff, payoff.Kind())

	turnover, err := svc.CreateTurnover(context.Background(), admin, ledger.AmountParams{Amount: -500})
	require.NoError(t, err)
	assert.Equal(t, int64(-500), turnover.Value())

	_, err = svc.CreateTurnover(context.Background(), admin, ledger.AmountParams{})
	assert.ErrorIs(t, err, shoperr.ErrInvalidAmount)

	_, err = svc.CreatePayoff(context.Background(), admin, ledger.AmountParams{})
	assert.ErrorIs(t, err, shoperr.ErrInvalidAmount)
}

func TestService_CreateReplenishmentCollection(t *testing.T) {
	params := ledger.ReplenishmentCollectionParams{
		Replenishments: []ledger.ReplenishmentParams{
			{ProductID: 1, Amount: 100, TotalPrice: 200},
			{ProductID: 2, Amount: 20, TotalPrice: 20},
		},
	}

	type testCase struct {
		name      string
		params    ledger.ReplenishmentCollectionParams
		setupMock func(repo *ledger.MockRepository, tx *ledger.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "ReactivatesProduct",
			params: params,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().Rollback().Return(nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(1)).Return(&catalog.Product{ID: 1, Active: false}, nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(2)).Return(&catalog.Product{ID: 2, Active: true}, nil)
				tx.EXPECT().ActivateProduct(gomock.Any(), int64(1)).Return(nil)
				tx.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:    "Empty",
			params:  ledger.ReplenishmentCollectionParams{},
			wantErr: shoperr.ErrDataMissing,
		},
		{
			name: "NonPositiveLine",
			params: ledger.ReplenishmentCollectionParams{Replenishments: []ledger.ReplenishmentParams{
				{ProductID: 1, Amount: 0, TotalPrice: 200},
			}},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name: "ZeroPrice",
			params: ledger.ReplenishmentCollectionParams{Replenishments: []ledger.ReplenishmentParams{
				{ProductID: 1, Amount: 5, TotalPrice: 0},
			}},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name:   "UnknownProduct",
			params: params,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().Rollback().Return(nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(1)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			got, err := svc.CreateReplenishmentCollection(context.Background(), admin, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(220), got.Value())
			assert.Len(t, got.Replenishments, 2)
		})
	}
}

func TestService_ToggleRevoke(t *testing.T) {
	type testCase struct {
		name      string
		kind      ledger.Kind
		revoked   bool
		setupMock func(repo *ledger.MockRepository, tx *ledger.MockTx, st *revocation.MockStore)
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "RevokeTurnover",
			kind:    ledger.KindTurnover,
			revoked: true,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx, st *revocation.MockStore) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().Rollback().Return(nil)
				tx.EXPECT().Revocations(ledger.KindTurnover).Return(st)
				st.EXPECT().Lock(gomock.Any(), int64(7)).Return(&revocation.State{}, nil)
				st.EXPECT().Append(gomock.Any(), int64(7), revocation.Event{Timestamp: now, AdminID: 1, Revoked: true}).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:    "NoOp",
			kind:    ledger.KindTurnover,
			revoked: false,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx, st *revocation.MockStore) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().Rollback().Return(nil)
				tx.EXPECT().Revocations(ledger.KindTurnover).Return(st)
				st.EXPECT().Lock(gomock.Any(), int64(7)).Return(&revocation.State{}, nil)
			},
			wantErr: shoperr.ErrStateUnchanged,
		},
		{
			name:    "UnknownEntry",
			kind:    ledger.KindDeposit,
			revoked: true,
			setupMock: func(repo *ledger.MockRepository, tx *ledger.MockTx, st *revocation.MockStore) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().Rollback().Return(nil)
				tx.EXPECT().Revocations(ledger.KindDeposit).Return(st)
				st.EXPECT().Lock(gomock.Any(), int64(7)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrEntryNotFound,
		},
		{
			name:    "UnknownKind",
			kind:    ledger.Kind("stocktaking"),
			revoked: true,
			wantErr: shoperr.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := newService(t)
			st := revocation.NewMockStore(gomock.NewController(t))

			if tt.setupMock != nil {
				tt.setupMock(repo, tx, st)
			}

			got, err := svc.ToggleRevoke(context.Background(), admin, tt.kind, 7, tt.revoked)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Revoked)
			assert.Equal(t, []revocation.Event{{Timestamp: now, AdminID: 1, Revoked: true}}, got.History)
		})
	}
}

func TestService_UserBalance(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().UserSums(gomock.Any(), int64(2)).Return(ledger.Sums{
		ledger.KindDeposit:  {Positive: 1000},
		ledger.KindPurchase: {Positive: 300},
	}, nil)
	repo.EXPECT().UserSums(gomock.Any(), int64(3)).Return(nil, shoperr.ErrEntryNotFound)

	got, err := svc.UserBalance(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(700), got)

	_, err = svc.UserBalance(context.Background(), 3)
	assert.ErrorIs(t, err, shoperr.ErrEntryNotFound)
}
