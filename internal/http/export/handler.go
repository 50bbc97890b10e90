package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/export"
	"github.com/Tim1593/shop-db2/internal/http/ledger"
	"github.com/Tim1593/shop-db2/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := ledger.ParseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	bundle, err := h.svc.Collect(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	// Built in memory first so a failure still gets a proper error response.
	var buf bytes.Buffer
	if err := bundle.WriteZip(&buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", bundle.FileName()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
