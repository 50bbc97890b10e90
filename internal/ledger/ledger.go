// Package ledger records the revocable monetary events of the shop.
//
// Amounts are signed integers in minor currency units. An entry is never
// deleted; revoking it only removes it from every derived figure.
package ledger

import (
	"time"

	"github.com/Tim1593/shop-db2/internal/revocation"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type Kind string

const (
	KindPurchase                Kind = "purchase"
	KindDeposit                 Kind = "deposit"
	KindRefund                  Kind = "refund"
	KindPayoff                  Kind = "payoff"
	KindTurnover                Kind = "turnover"
	KindReplenishmentCollection Kind = "replenishmentcollection"
)

// Kinds lists every ledger entry kind in display order.
var Kinds = []Kind{
	KindPurchase,
	KindDeposit,
	KindReplenishmentCollection,
	KindTurnover,
	KindRefund,
	KindPayoff,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}

	return "", shoperr.Field(shoperr.ErrInvalidData, "kind")
}

// Header holds what every entry shares.
type Header struct {
	ID        int64
	Timestamp time.Time
	AdminID   int64
	Comment   string
	revocation.State
}

func (h *Header) Base() *Header {
	return h
}

// Entry is implemented by every ledger entry type.
type Entry interface {
	Kind() Kind
	Base() *Header
	// Value is the signed monetary effect of the entry.
	Value() int64
}

type Purchase struct {
	Header
	UserID    int64
	ProductID int64
	Amount    int64
	// ProductPrice is the unit price at creation time.
	ProductPrice int64
}

func (*Purchase) Kind() Kind     { return KindPurchase }
func (p *Purchase) Value() int64 { return p.Amount * p.ProductPrice }

type Deposit struct {
	Header
	UserID int64
	Amount int64
}

func (*Deposit) Kind() Kind     { return KindDeposit }
func (d *Deposit) Value() int64 { return d.Amount }

type Refund struct {
	Header
	UserID     int64
	TotalPrice int64
}

func (*Refund) Kind() Kind     { return KindRefund }
func (r *Refund) Value() int64 { return r.TotalPrice }

// Payoff is money taken out of the till, e.g. to pay a supplier.
type Payoff struct {
	Header
	Amount int64
}

func (*Payoff) Kind() Kind     { return KindPayoff }
func (p *Payoff) Value() int64 { return p.Amount }

// Turnover is a free-form correction of the cash balance.
type Turnover struct {
	Header
	Amount int64
}

func (*Turnover) Kind() Kind     { return KindTurnover }
func (t *Turnover) Value() int64 { return t.Amount }

// Replenishment is one line of a ReplenishmentCollection. It has no revocation
// state of its own.
type Replenishment struct {
	ID         int64
	ProductID  int64
	Amount     int64
	TotalPrice int64
}

type ReplenishmentCollection struct {
	Header
	Replenishments []Replenishment
}

func (*ReplenishmentCollection) Kind() Kind { return KindReplenishmentCollection }

// Value is the collection price, the sum of its line totals.
func (c *ReplenishmentCollection) Value() int64 {
	var sum int64
	for _, r := range c.Replenishments {
		sum += r.TotalPrice
	}

	return sum
}
