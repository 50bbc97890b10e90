package stocktaking

import (
	"slices"

	"github.com/Tim1593/shop-db2/internal/ledger"
)

// Window is everything needed to reconcile two collections, read from one
// consistent snapshot.
type Window struct {
	Start *Collection
	End   *Collection
	// Movements are keyed by product id and cover start <= t < end.
	Movements map[int64]ledger.Movement
	// Prices are the product prices in effect at the end timestamp.
	Prices map[int64]int64
}

type ProductBalance struct {
	ProductID   int64
	StartCount  int64
	EndCount    int64
	Purchased   int64
	Replenished int64
	Expected    int64
	// Difference is counted minus expected stock.
	Difference int64
	Price      int64
	// Value is Difference valued at Price.
	Value int64
}

type Balance struct {
	Profit   int64
	Loss     int64
	Products []ProductBalance
}

// Reconcile compares the stock expected at the end of the window with the
// stock counted there, for every product in the union of both counts.
// Products missing from the end count are taken as zero. Products missing from
// the start count start at zero, so a product first stocked inside the window
// is reconciled against its replenishments and purchases. Products in neither
// count are ignored. A nil bound or a window that starts and ends at the same
// collection yields an empty balance.
func Reconcile(w Window) Balance {
	if w.Start == nil || w.End == nil || w.Start.ID == w.End.ID {
		return Balance{}
	}

	var ids []int64

	seen := make(map[int64]bool)

	for _, c := range []*Collection{w.Start, w.End} {
		for _, it := range c.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}

	slices.Sort(ids)

	var b Balance

	for _, id := range ids {
		startCount, _ := w.Start.count(id)
		endCount, _ := w.End.count(id)
		mv := w.Movements[id]

		pb := ProductBalance{
			ProductID:   id,
			StartCount:  startCount,
			EndCount:    endCount,
			Purchased:   mv.Purchased,
			Replenished: mv.Replenished,
			Expected:    startCount - mv.Purchased + mv.Replenished,
			Price:       w.Prices[id],
		}
		pb.Difference = endCount - pb.Expected
		pb.Value = pb.Difference * pb.Price

		if pb.Value >= 0 {
			b.Profit += pb.Value
		} else {
			b.Loss -= pb.Value
		}

		b.Products = append(b.Products, pb)
	}

	return b
}
