package overview_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/overview"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

func item(side overview.Side, name string) int64 {
	for _, it := range side.Items {
		if it.Name == name {
			return it.Amount
		}
	}

	return -1
}

func sumItems(side overview.Side) int64 {
	var sum int64
	for _, it := range side.Items {
		sum += it.Amount
	}

	return sum
}

func TestCompute_PurchaseAndNegativeDeposit(t *testing.T) {
	sums := ledger.Sums{
		ledger.KindPurchase: {Positive: 300},
		ledger.KindDeposit:  {Negative: -150},
	}

	o := overview.Compute(overview.Figures{Sums: sums})

	assert.Equal(t, int64(300), item(o.Incomes, "Purchases"))
	assert.Equal(t, int64(150), item(o.Expenses, "Deposits"))
	assert.Equal(t, int64(150), o.TotalBalance)
}

func TestCompute_Identity(t *testing.T) {
	sums := ledger.Sums{
		ledger.KindPurchase:                {Positive: 360},
		ledger.KindDeposit:                 {Positive: 2000},
		ledger.KindRefund:                  {Positive: 300},
		ledger.KindPayoff:                  {Positive: 1500, Negative: -100},
		ledger.KindTurnover:                {Negative: -500},
		ledger.KindReplenishmentCollection: {Positive: 800},
	}

	inventory := &stocktaking.Window{
		Start:  &stocktaking.Collection{ID: 1, Items: []stocktaking.Item{{ProductID: 1, Count: 5}, {ProductID: 2, Count: 5}}},
		End:    &stocktaking.Collection{ID: 2, Items: []stocktaking.Item{{ProductID: 1, Count: 6}, {ProductID: 2, Count: 3}}},
		Prices: map[int64]int64{1: 100, 2: 50},
	}

	o := overview.Compute(overview.Figures{Sums: sums, Inventory: inventory})

	assert.Equal(t, sumItems(o.Incomes), o.Incomes.Amount)
	assert.Equal(t, sumItems(o.Expenses), o.Expenses.Amount)
	assert.Equal(t, o.Incomes.Amount-o.Expenses.Amount, o.TotalBalance)

	assert.Equal(t, int64(100), item(o.Incomes, "Inventory"))
	assert.Equal(t, int64(100), item(o.Expenses, "Inventory"))
	assert.Equal(t, int64(100), item(o.Incomes, "Payoffs"))
	assert.Equal(t, int64(1500), item(o.Expenses, "Payoffs"))
	assert.Equal(t, int64(800), item(o.Expenses, "Replenishments"))
	assert.Equal(t, int64(300), item(o.Expenses, "Refunds"))
	assert.Equal(t, int64(500), item(o.Expenses, "Turnovers"))
	assert.Len(t, o.Incomes.Items, 7)
	assert.Len(t, o.Expenses.Items, 7)
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := overview.NewMockRepository(ctrl)
	repo.EXPECT().Figures(gomock.Any()).Return(&overview.Figures{Sums: ledger.Sums{
		ledger.KindDeposit: {Positive: 1000},
	}}, nil)
	repo.EXPECT().Figures(gomock.Any()).Return(nil, errors.New("db error"))

	svc := overview.NewService(repo)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.TotalBalance)

	_, err = svc.Get(context.Background())
	assert.Error(t, err)
}
