package importcsv

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/importer"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/"+string(importer.FormatCountSheet), h.countSheet)
	r.Post("/"+string(importer.FormatInvoice), h.invoice)
}

type stocktakingItem struct {
	ProductID  int64 `json:"product_id"`
	Count      int64 `json:"count"`
	KeepActive bool  `json:"keep_active"`
}

type stocktakingPreview struct {
	Stocktakings []stocktakingItem `json:"stocktakings"`
}

type replenishmentLine struct {
	ProductID  int64 `json:"product_id"`
	Amount     int64 `json:"amount"`
	TotalPrice int64 `json:"total_price"`
}

type replenishmentPreview struct {
	Replenishments []replenishmentLine `json:"replenishments"`
}

// upload opens the multipart "file" field. The caller closes it.
func upload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, shoperr.Field(shoperr.ErrInvalidData, "form")
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "file")
	}

	return file, nil
}

func (h *Handler) countSheet(w http.ResponseWriter, r *http.Request) {
	file, err := upload(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	items, err := h.svc.CountSheet(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := stocktakingPreview{Stocktakings: make([]stocktakingItem, 0, len(items))}
	for _, it := range items {
		resp.Stocktakings = append(resp.Stocktakings, stocktakingItem{
			ProductID:  it.ProductID,
			Count:      it.Count,
			KeepActive: it.KeepActive,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	file, err := upload(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer file.Close()

	lines, err := h.svc.Invoice(file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := replenishmentPreview{Replenishments: make([]replenishmentLine, 0, len(lines))}
	for _, l := range lines {
		resp.Replenishments = append(resp.Replenishments, replenishmentLine{
			ProductID:  l.ProductID,
			Amount:     l.Amount,
			TotalPrice: l.TotalPrice,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
