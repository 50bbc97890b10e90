// Package overview derives the shop's financial overview from the ledger and
// the inventory reconciliation. Nothing is cached; every call recomputes from
// committed entries.
package overview

import (
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

const InventoryLabel = "Inventory"

var labels = map[ledger.Kind]string{
	ledger.KindPurchase:                "Purchases",
	ledger.KindDeposit:                 "Deposits",
	ledger.KindReplenishmentCollection: "Replenishments",
	ledger.KindTurnover:                "Turnovers",
	ledger.KindRefund:                  "Refunds",
	ledger.KindPayoff:                  "Payoffs",
}

func Label(kind ledger.Kind) string {
	return labels[kind]
}

type Item struct {
	Name   string
	Amount int64
}

type Side struct {
	Amount int64
	Items  []Item
}

func (s *Side) add(name string, amount int64) {
	s.Items = append(s.Items, Item{Name: name, Amount: amount})
	s.Amount += amount
}

type Overview struct {
	TotalBalance int64
	Incomes      Side
	Expenses     Side
}

// Figures are the raw inputs of an overview, read from one snapshot.
type Figures struct {
	Sums ledger.Sums
	// Inventory is nil when fewer than two stocktakings exist.
	Inventory *stocktaking.Window
}

// Compute builds the overview. Every kind appears on both sides, in the order
// of ledger.Kinds, followed by the inventory result.
func Compute(f Figures) Overview {
	var o Overview

	for _, kind := range ledger.Kinds {
		income, expense := ledger.Split(kind, f.Sums[kind])
		o.Incomes.add(Label(kind), income)
		o.Expenses.add(Label(kind), expense)
	}

	var inventory stocktaking.Balance
	if f.Inventory != nil {
		inventory = stocktaking.Reconcile(*f.Inventory)
	}

	o.Incomes.add(InventoryLabel, inventory.Profit)
	o.Expenses.add(InventoryLabel, inventory.Loss)

	o.TotalBalance = o.Incomes.Amount - o.Expenses.Amount

	return o
}
