package stocktaking

import (
	"time"

	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type itemResponse struct {
	ProductID int64 `json:"product_id"`
	Count     int64 `json:"count"`
}

type collectionResponse struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	AdminID      int64          `json:"admin_id"`
	Revoked      bool           `json:"revoked"`
	Stocktakings []itemResponse `json:"stocktakings"`
}

func toCollectionResponse(c *stocktaking.Collection) collectionResponse {
	resp := collectionResponse{
		ID:           c.ID,
		Timestamp:    c.Timestamp,
		AdminID:      c.AdminID,
		Revoked:      c.Revoked,
		Stocktakings: make([]itemResponse, 0, len(c.Items)),
	}

	for _, item := range c.Items {
		resp.Stocktakings = append(resp.Stocktakings, itemResponse{ProductID: item.ProductID, Count: item.Count})
	}

	return resp
}

type productBalanceResponse struct {
	ProductID      int64 `json:"product_id"`
	StartCount     int64 `json:"start_count"`
	EndCount       int64 `json:"end_count"`
	Purchases      int64 `json:"purchase_count"`
	Replenishments int64 `json:"replenish_count"`
	Expected       int64 `json:"expected_count"`
	Difference     int64 `json:"difference"`
	Price          int64 `json:"price"`
	Balance        int64 `json:"balance"`
}

type balanceResponse struct {
	Profit   int64                    `json:"profit"`
	Loss     int64                    `json:"loss"`
	Balance  int64                    `json:"balance"`
	Products []productBalanceResponse `json:"products"`
}

func toBalanceResponse(b *stocktaking.Balance) balanceResponse {
	resp := balanceResponse{
		Profit:   b.Profit,
		Loss:     b.Loss,
		Balance:  b.Profit - b.Loss,
		Products: make([]productBalanceResponse, 0, len(b.Products)),
	}

	for _, p := range b.Products {
		resp.Products = append(resp.Products, productBalanceResponse{
			ProductID:      p.ProductID,
			StartCount:     p.StartCount,
			EndCount:       p.EndCount,
			Purchases:      p.Purchased,
			Replenishments: p.Replenished,
			Expected:       p.Expected,
			Difference:     p.Difference,
			Price:          p.Price,
			Balance:        p.Value,
		})
	}

	return resp
}
