package overview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/overview"
)

type Handler struct {
	svc *overview.Service
}

func NewHandler(svc *overview.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type itemResponse struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type sideResponse struct {
	Amount int64          `json:"amount"`
	Items  []itemResponse `json:"items"`
}

type overviewResponse struct {
	TotalBalance int64        `json:"total_balance"`
	Incomes      sideResponse `json:"incomes"`
	Expenses     sideResponse `json:"expenses"`
}

func toSideResponse(s overview.Side) sideResponse {
	resp := sideResponse{Amount: s.Amount, Items: make([]itemResponse, 0, len(s.Items))}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, itemResponse{Name: it.Name, Amount: it.Amount})
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, overviewResponse{
		TotalBalance: o.TotalBalance,
		Incomes:      toSideResponse(o.Incomes),
		Expenses:     toSideResponse(o.Expenses),
	})
}
