package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Paths maps each entry kind to its collection path.
var Paths = map[ledger.Kind]string{
	ledger.KindPurchase:                "/purchases",
	ledger.KindDeposit:                 "/deposits",
	ledger.KindPayoff:                  "/payoffs",
	ledger.KindRefund:                  "/refunds",
	ledger.KindTurnover:                "/turnovers",
	ledger.KindReplenishmentCollection: "/replenishmentcollections",
}

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	creators := map[ledger.Kind]http.HandlerFunc{
		ledger.KindPurchase:                h.createPurchase,
		ledger.KindDeposit:                 h.createDeposit,
		ledger.KindPayoff:                  h.createPayoff,
		ledger.KindRefund:                  h.createRefund,
		ledger.KindTurnover:                h.createTurnover,
		ledger.KindReplenishmentCollection: h.createReplenishmentCollection,
	}

	for _, kind := range ledger.Kinds {
		r.Route(Paths[kind], func(r chi.Router) {
			r.Get("/", h.list(kind))
			r.Post("/", creators[kind])
			r.Get("/{id}", h.get(kind))
			r.Put("/{id}/revoke", h.revoke(kind))
		})
	}
}

func (h *Handler) list(kind ledger.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := ParseFilter(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		entries, err := h.svc.ListEntries(r.Context(), kind, filter)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResponseList(entries))
	}
}

// ParseFilter reads user_id, start_date and end_date. Both dates are inclusive.
func ParseFilter(r *http.Request) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	userID, ok, err := respond.QueryID(r, "user_id")
	if err != nil {
		return filter, err
	}

	if ok {
		filter.UserID = new(userID)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, shoperr.Field(shoperr.ErrWrongType, "start_date")
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, shoperr.Field(shoperr.ErrWrongType, "end_date")
		}

		// end_date is inclusive
		filter.EndDate = new(t.AddDate(0, 0, 1))
	}

	return filter, nil
}

func (h *Handler) get(kind ledger.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := respond.IDParam(r, "id")
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		e, err := h.svc.GetEntry(r.Context(), kind, id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResponse(e))
	}
}

type revokeRequest struct {
	Revoked *bool `json:"revoked" validate:"required"`
}

func (h *Handler) revoke(kind ledger.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		state, err := h.svc.ToggleRevoke(r.Context(), admin, kind, id, *req.Revoked)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, ToRevokeResponse(state))
	}
}

type purchaseRequest struct {
	UserID    int64  `json:"user_id" validate:"required"`
	ProductID int64  `json:"product_id" validate:"required"`
	Amount    *int64 `json:"amount" validate:"required,ne=0"`
	Comment   string `json:"comment"`
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req purchaseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.CreatePurchase(r.Context(), admin, ledger.PurchaseParams{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Amount:    *req.Amount,
		Comment:   req.Comment,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

type depositRequest struct {
	UserID  int64  `json:"user_id" validate:"required"`
	Amount  *int64 `json:"amount" validate:"required,ne=0"`
	Comment string `json:"comment" validate:"required"`
}

func (h *Handler) createDeposit(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req depositRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.CreateDeposit(r.Context(), admin, ledger.DepositParams{
		UserID:  req.UserID,
		Amount:  *req.Amount,
		Comment: req.Comment,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(d))
}

type refundRequest struct {
	UserID     int64  `json:"user_id" validate:"required"`
	TotalPrice *int64 `json:"total_price" validate:"required,ne=0"`
	Comment    string `json:"comment" validate:"required"`
}

func (h *Handler) createRefund(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req refundRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	ref, err := h.svc.CreateRefund(r.Context(), admin, ledger.RefundParams{
		UserID:     req.UserID,
		TotalPrice: *req.TotalPrice,
		Comment:    req.Comment,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(ref))
}

type amountRequest struct {
	Amount  *int64 `json:"amount" validate:"required,ne=0"`
	Comment string `json:"comment" validate:"required"`
}

func (h *Handler) createPayoff(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req amountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.CreatePayoff(r.Context(), admin, ledger.AmountParams{Amount: *req.Amount, Comment: req.Comment})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) createTurnover(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req amountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.CreateTurnover(r.Context(), admin, ledger.AmountParams{Amount: *req.Amount, Comment: req.Comment})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

type replenishmentRequest struct {
	ProductID  int64  `json:"product_id" validate:"required"`
	Amount     *int64 `json:"amount" validate:"required"`
	TotalPrice *int64 `json:"total_price" validate:"required"`
}

type replenishmentCollectionRequest struct {
	Replenishments []replenishmentRequest `json:"replenishments" validate:"required,dive"`
	Comment        string                 `json:"comment" validate:"required"`
}

func (h *Handler) createReplenishmentCollection(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req replenishmentCollectionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := ledger.ReplenishmentCollectionParams{Comment: req.Comment}
	for _, rep := range req.Replenishments {
		params.Replenishments = append(params.Replenishments, ledger.ReplenishmentParams{
			ProductID:  rep.ProductID,
			Amount:     *rep.Amount,
			TotalPrice: *rep.TotalPrice,
		})
	}

	c, err := h.svc.CreateReplenishmentCollection(r.Context(), admin, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}
