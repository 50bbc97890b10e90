package stocktaking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/ledger"
	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/shoperr"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type Handler struct {
	svc *stocktaking.Service
}

func NewHandler(svc *stocktaking.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/balance", h.balance)
	r.Get("/{id}", h.get)
	r.Put("/{id}/revoke", h.revoke)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	collections, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]collectionResponse, 0, len(collections))
	for _, c := range collections {
		resp = append(resp, toCollectionResponse(c))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toCollectionResponse(c))
}

type itemRequest struct {
	ProductID  int64  `json:"product_id" validate:"required"`
	Count      *int64 `json:"count" validate:"required"`
	KeepActive bool   `json:"keep_active"`
}

type createRequest struct {
	Stocktakings []itemRequest `json:"stocktakings" validate:"required,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	var params stocktaking.CreateParams

	for _, item := range req.Stocktakings {
		params.Items = append(params.Items, stocktaking.ItemParams{
			ProductID:  item.ProductID,
			Count:      *item.Count,
			KeepActive: item.KeepActive,
		})
	}

	c, err := h.svc.Create(r.Context(), admin, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toCollectionResponse(c))
}

type revokeRequest struct {
	Revoked *bool `json:"revoked" validate:"required"`
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req revokeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	state, err := h.svc.ToggleRevoke(r.Context(), admin, id, *req.Revoked)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, ledger.ToRevokeResponse(state))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	startID, ok, err := respond.QueryID(r, "start_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if !ok {
		respond.Error(w, r, shoperr.Field(shoperr.ErrDataMissing, "start_id"))
		return
	}

	endID, ok, err := respond.QueryID(r, "end_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if !ok {
		respond.Error(w, r, shoperr.Field(shoperr.ErrDataMissing, "end_id"))
		return
	}

	b, err := h.svc.Balance(r.Context(), startID, endID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBalanceResponse(b))
}
