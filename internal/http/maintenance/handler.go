package maintenance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/maintenance"
)

type Handler struct {
	mode       *maintenance.Mode
	authorizer auth.Authorizer
}

func NewHandler(mode *maintenance.Mode, authorizer auth.Authorizer) *Handler {
	return &Handler{mode: mode, authorizer: authorizer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.With(guard.RequireAdmin(h.authorizer)).Post("/", h.set)
}

type stateResponse struct {
	Enabled bool `json:"enabled"`
}

type setRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, stateResponse{Enabled: h.mode.Enabled()})
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req setRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.mode.Set(r.Context(), admin, *req.Enabled); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, stateResponse{Enabled: h.mode.Enabled()})
}
