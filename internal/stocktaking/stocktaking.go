// Package stocktaking records inventory counts and reconciles two counts
// against the purchases and replenishments in between.
package stocktaking

import (
	"time"

	"github.com/Tim1593/shop-db2/internal/revocation"
)

// RevocationKind identifies stocktaking collections in the revoke history.
const RevocationKind = "stocktakingcollection"

type Item struct {
	ProductID int64
	Count     int64
}

// Collection is one inventory snapshot.
type Collection struct {
	ID        int64
	Timestamp time.Time
	AdminID   int64
	revocation.State
	Items []Item
}

func (c *Collection) count(productID int64) (int64, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Count, true
		}
	}

	return 0, false
}
