package stocktaking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/catalog"
	"github.com/Tim1593/shop-db2/internal/revocation"
	"github.com/Tim1593/shop-db2/internal/shoperr"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

var admin = auth.Admin{ID: 1}

func countable(id int64) *catalog.Product {
	return &catalog.Product{ID: id, Active: true, Countable: true}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    stocktaking.CreateParams
		setupMock func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx)
		wantErr   error
	}

	beginTx := func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx) {
		repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
		tx.EXPECT().Rollback().Return(nil)
	}

	tests := []testCase{
		{
			name: "DeactivatesEmptyProducts",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 1, Count: 10},
				{ProductID: 2, Count: 0},
				{ProductID: 3, Count: 0, KeepActive: true},
			}},
			setupMock: func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().CountableProductIDs(gomock.Any()).Return([]int64{1, 2, 3}, nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(1)).Return(countable(1), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(2)).Return(countable(2), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(3)).Return(countable(3), nil)
				tx.EXPECT().InsertCollection(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *stocktaking.Collection) error {
						c.ID = 4
						return nil
					})
				tx.EXPECT().DeactivateProduct(gomock.Any(), int64(2)).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name: "MissingProduct",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 1, Count: 10},
			}},
			setupMock: func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().CountableProductIDs(gomock.Any()).Return([]int64{1, 2}, nil)
			},
			wantErr: shoperr.ErrDataMissing,
		},
		{
			name: "InactiveProduct",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 1, Count: 10},
				{ProductID: 9, Count: 1},
			}},
			setupMock: func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().CountableProductIDs(gomock.Any()).Return([]int64{1}, nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(1)).Return(countable(1), nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(9)).Return(&catalog.Product{ID: 9, Countable: true}, nil)
			},
			wantErr: shoperr.ErrEntryIsInactive,
		},
		{
			name: "UnknownProduct",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 9, Count: 1},
			}},
			setupMock: func(repo *stocktaking.MockRepository, tx *stocktaking.MockTx) {
				beginTx(repo, tx)
				tx.EXPECT().CountableProductIDs(gomock.Any()).Return(nil, nil)
				tx.EXPECT().GetProduct(gomock.Any(), int64(9)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrEntryNotFound,
		},
		{
			name: "NegativeCount",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 1, Count: -1},
			}},
			wantErr: shoperr.ErrInvalidAmount,
		},
		{
			name: "DuplicateProduct",
			params: stocktaking.CreateParams{Items: []stocktaking.ItemParams{
				{ProductID: 1, Count: 1},
				{ProductID: 1, Count: 2},
			}},
			wantErr: shoperr.ErrInvalidData,
		},
		{
			name:    "NoItems",
			params:  stocktaking.CreateParams{},
			wantErr: shoperr.ErrDataMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := stocktaking.NewMockRepository(ctrl)
			tx := stocktaking.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := stocktaking.NewService(repo).WithClock(func() time.Time { return t0 })
			got, err := svc.Create(context.Background(), admin, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(4), got.ID)
			assert.Equal(t, t0, got.Timestamp)
			assert.Len(t, got.Items, 3)
		})
	}
}

func TestService_ToggleRevoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := stocktaking.NewMockRepository(ctrl)
	tx := stocktaking.NewMockTx(ctrl)
	st := revocation.NewMockStore(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback().Return(nil)
	tx.EXPECT().Revocations().Return(st)
	st.EXPECT().Lock(gomock.Any(), int64(3)).Return(&revocation.State{}, nil)
	st.EXPECT().Append(gomock.Any(), int64(3), revocation.Event{Timestamp: t1, AdminID: 1, Revoked: true}).Return(nil)
	tx.EXPECT().Commit().Return(nil)

	svc := stocktaking.NewService(repo).WithClock(func() time.Time { return t1 })

	state, err := svc.ToggleRevoke(context.Background(), admin, 3, true)
	require.NoError(t, err)
	assert.True(t, state.Revoked)
}

func TestService_Balance(t *testing.T) {
	start := &stocktaking.Collection{ID: 1, Timestamp: t0, Items: []stocktaking.Item{{ProductID: 1, Count: 10}}}
	end := &stocktaking.Collection{ID: 2, Timestamp: t1, Items: []stocktaking.Item{{ProductID: 1, Count: 12}}}

	type testCase struct {
		name       string
		startID    int64
		endID      int64
		setupMock  func(repo *stocktaking.MockRepository)
		wantProfit int64
		wantErr    error
	}

	tests := []testCase{
		{
			name:    "Profit",
			startID: 1,
			endID:   2,
			setupMock: func(repo *stocktaking.MockRepository) {
				repo.EXPECT().Window(gomock.Any(), int64(1), int64(2)).Return(&stocktaking.Window{
					Start:  start,
					End:    end,
					Prices: map[int64]int64{1: 100},
				}, nil)
			},
			wantProfit: 200,
		},
		{
			name:    "SameCollection",
			startID: 1,
			endID:   1,
			setupMock: func(repo *stocktaking.MockRepository) {
				repo.EXPECT().GetCollection(gomock.Any(), int64(1)).Return(start, nil)
			},
		},
		{
			name:    "StartAfterEnd",
			startID: 2,
			endID:   1,
			setupMock: func(repo *stocktaking.MockRepository) {
				repo.EXPECT().Window(gomock.Any(), int64(2), int64(1)).
					Return(&stocktaking.Window{Start: end, End: start}, nil)
			},
			wantErr: shoperr.ErrInvalidData,
		},
		{
			name:    "RevokedBound",
			startID: 1,
			endID:   2,
			setupMock: func(repo *stocktaking.MockRepository) {
				revoked := *end
				revoked.Revoked = true

				repo.EXPECT().Window(gomock.Any(), int64(1), int64(2)).
					Return(&stocktaking.Window{Start: start, End: &revoked}, nil)
			},
			wantErr: shoperr.ErrEntryIsInactive,
		},
		{
			name:    "UnknownCollection",
			startID: 1,
			endID:   5,
			setupMock: func(repo *stocktaking.MockRepository) {
				repo.EXPECT().Window(gomock.Any(), int64(1), int64(5)).Return(nil, shoperr.ErrEntryNotFound)
			},
			wantErr: shoperr.ErrEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := stocktaking.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := stocktaking.NewService(repo).Balance(context.Background(), tt.startID, tt.endID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantProfit, got.Profit)
			assert.Zero(t, got.Loss)
		})
	}
}
