package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tim1593/shop-db2/internal/ledger"
)

func TestSplit(t *testing.T) {
	type testCase struct {
		name        string
		kind        ledger.Kind
		totals      ledger.Totals
		wantIncome  int64
		wantExpense int64
	}

	tests := []testCase{
		{name: "PurchaseIncome", kind: ledger.KindPurchase, totals: ledger.Totals{Positive: 300}, wantIncome: 300},
		{name: "DepositCorrection", kind: ledger.KindDeposit, totals: ledger.Totals{Negative: -150}, wantExpense: 150},
		{name: "TurnoverBoth", kind: ledger.KindTurnover, totals: ledger.Totals{Positive: 10, Negative: -4}, wantIncome: 10, wantExpense: 4},
		{name: "ReplenishmentExpense", kind: ledger.KindReplenishmentCollection, totals: ledger.Totals{Positive: 220}, wantExpense: 220},
		{name: "RefundCorrection", kind: ledger.KindRefund, totals: ledger.Totals{Negative: -20}, wantIncome: 20},
		{name: "PayoffExpense", kind: ledger.KindPayoff, totals: ledger.Totals{Positive: 500, Negative: -50}, wantIncome: 50, wantExpense: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income, expense := ledger.Split(tt.kind, tt.totals)
			assert.Equal(t, tt.wantIncome, income)
			assert.Equal(t, tt.wantExpense, expense)
		})
	}
}

func TestCredit(t *testing.T) {
	sums := ledger.Sums{
		ledger.KindDeposit:  {Positive: 1000, Negative: -100},
		ledger.KindRefund:   {Positive: 50},
		ledger.KindPurchase: {Positive: 300},
	}

	assert.Equal(t, int64(650), ledger.Credit(sums))
	assert.Equal(t, int64(0), ledger.Credit(ledger.Sums{}))
}

func TestParseKind(t *testing.T) {
	k, err := ledger.ParseKind("turnover")
	assert.NoError(t, err)
	assert.Equal(t, ledger.KindTurnover, k)

	_, err = ledger.ParseKind("stocktaking")
	assert.Error(t, err)
}
