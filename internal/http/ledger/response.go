package ledger

import (
	"time"

	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/revocation"
)

type revokeEventResponse struct {
	Revoked   bool      `json:"revoked"`
	AdminID   int64     `json:"admin_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RevokeResponse is the body returned by every revoke toggle.
type RevokeResponse struct {
	Revoked       bool                  `json:"revoked"`
	RevokeHistory []revokeEventResponse `json:"revokehistory"`
}

func ToRevokeResponse(state *revocation.State) RevokeResponse {
	return RevokeResponse{Revoked: state.Revoked, RevokeHistory: toHistory(state.History)}
}

func toHistory(events []revocation.Event) []revokeEventResponse {
	history := make([]revokeEventResponse, 0, len(events))
	for _, ev := range events {
		history = append(history, revokeEventResponse{Revoked: ev.Revoked, AdminID: ev.AdminID, Timestamp: ev.Timestamp})
	}

	return history
}

type replenishmentResponse struct {
	ID         int64 `json:"id"`
	ProductID  int64 `json:"product_id"`
	Amount     int64 `json:"amount"`
	TotalPrice int64 `json:"total_price"`
}

type entryResponse struct {
	Kind          ledger.Kind             `json:"kind"`
	ID            int64                   `json:"id"`
	Timestamp     time.Time               `json:"timestamp"`
	AdminID       int64                   `json:"admin_id"`
	Comment       string                  `json:"comment,omitempty"`
	Value         int64                   `json:"value"`
	UserID        *int64                  `json:"user_id,omitempty"`
	ProductID     *int64                  `json:"product_id,omitempty"`
	Amount        *int64                  `json:"amount,omitempty"`
	ProductPrice  *int64                  `json:"productprice,omitempty"`
	TotalPrice    *int64                  `json:"total_price,omitempty"`
	Replenish     []replenishmentResponse `json:"replenishments,omitempty"`
	Revoked       bool                    `json:"revoked"`
	RevokeHistory []revokeEventResponse   `json:"revokehistory"`
}

func toResponse(e ledger.Entry) entryResponse {
	base := e.Base()

	resp := entryResponse{
		Kind:          e.Kind(),
		ID:            base.ID,
		Timestamp:     base.Timestamp,
		AdminID:       base.AdminID,
		Comment:       base.Comment,
		Value:         e.Value(),
		Revoked:       base.Revoked,
		RevokeHistory: toHistory(base.History),
	}

	switch e := e.(type) {
	case *ledger.Purchase:
		resp.UserID = new(e.UserID)
		resp.ProductID = new(e.ProductID)
		resp.Amount = new(e.Amount)
		resp.ProductPrice = new(e.ProductPrice)
	case *ledger.Deposit:
		resp.UserID = new(e.UserID)
		resp.Amount = new(e.Amount)
	case *ledger.Refund:
		resp.UserID = new(e.UserID)
		resp.TotalPrice = new(e.TotalPrice)
	case *ledger.Payoff:
		resp.Amount = new(e.Amount)
	case *ledger.Turnover:
		resp.Amount = new(e.Amount)
	case *ledger.ReplenishmentCollection:
		resp.TotalPrice = new(e.Value())
		for _, rep := range e.Replenishments {
			resp.Replenish = append(resp.Replenish, replenishmentResponse{
				ID:         rep.ID,
				ProductID:  rep.ProductID,
				Amount:     rep.Amount,
				TotalPrice: rep.TotalPrice,
			})
		}
	}

	return resp
}

func toResponseList(entries []ledger.Entry) []entryResponse {
	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toResponse(e))
	}

	return resp
}
