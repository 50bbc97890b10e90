package ledger

// Totals are the sums of non-revoked entry values of one kind, split by sign.
// Negative is never above zero.
type Totals struct {
	Positive int64
	Negative int64
}

func (t Totals) Net() int64 {
	return t.Positive + t.Negative
}

func (t *Totals) Add(value int64) {
	if value >= 0 {
		t.Positive += value
		return
	}

	t.Negative += value
}

// Sums holds Totals per kind.
type Sums map[Kind]Totals

// IncomeSign is the sign of a value that counts as income for kind. Money
// received from members and positive cash corrections are income; money spent
// on stock, refunds and payoffs are expenses. A value with the opposite sign
// is a correction and lands in the other bucket.
func IncomeSign(kind Kind) int {
	switch kind {
	case KindPurchase, KindDeposit, KindTurnover:
		return 1
	default:
		return -1
	}
}

// Split returns the income and expense contribution of t, both non-negative.
func Split(kind Kind, t Totals) (income, expense int64) {
	if IncomeSign(kind) > 0 {
		return t.Positive, -t.Negative
	}

	return -t.Negative, t.Positive
}

// Credit is a user's balance: what they paid in and got refunded minus what
// they bought.
func Credit(s Sums) int64 {
	return s[KindDeposit].Net() + s[KindRefund].Net() - s[KindPurchase].Net()
}

// Movement is the stock flow of one product through non-revoked purchases and
// replenishments.
type Movement struct {
	Purchased   int64
	Replenished int64
}
