package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/respond"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	ID       int64  `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), guard.Credential(r)); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Logged out.")
}
