package importer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Tim1593/shop-db2/internal/importer/sheet"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/shoperr"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// CountSheet parses a stocktaking count sheet.
func (s *Service) CountSheet(r io.Reader) ([]stocktaking.ItemParams, error) {
	sh, err := sheet.Read(r, countSheet)
	if err != nil {
		return nil, err
	}

	items := make([]stocktaking.ItemParams, 0, len(sh.Records))

	for _, rec := range sh.Records {
		productID, err := sheet.ParseCount(rec.Value(fieldProductID))
		if err != nil {
			return nil, cellError(rec, fieldProductID)
		}

		count, err := sheet.ParseCount(rec.Value(fieldCount))
		if err != nil {
			return nil, cellError(rec, fieldCount)
		}

		if count < 0 {
			return nil, shoperr.Field(shoperr.ErrInvalidAmount, fmt.Sprintf("line %d", rec.Line))
		}

		keep, err := sheet.ParseFlag(rec.Value(fieldKeepActive))
		if err != nil {
			return nil, cellError(rec, fieldKeepActive)
		}

		items = append(items, stocktaking.ItemParams{ProductID: productID, Count: count, KeepActive: keep})
	}

	slog.Info("count sheet parsed", "items", len(items), "charset", sh.Charset, "headerless", sh.Headerless)

	return items, nil
}

// Invoice parses a supplier invoice into replenishment lines.
func (s *Service) Invoice(r io.Reader) ([]ledger.ReplenishmentParams, error) {
	sh, err := sheet.Read(r, invoice)
	if err != nil {
		return nil, err
	}

	lines := make([]ledger.ReplenishmentParams, 0, len(sh.Records))

	for _, rec := range sh.Records {
		productID, err := sheet.ParseCount(rec.Value(fieldProductID))
		if err != nil {
			return nil, cellError(rec, fieldProductID)
		}

		amount, err := sheet.ParseCount(rec.Value(fieldAmount))
		if err != nil {
			return nil, cellError(rec, fieldAmount)
		}

		total, err := sheet.ParseMoney(rec.Value(fieldTotalPrice))
		if err != nil {
			return nil, cellError(rec, fieldTotalPrice)
		}

		if amount <= 0 {
			return nil, shoperr.Field(shoperr.ErrInvalidAmount, fmt.Sprintf("line %d", rec.Line))
		}

		lines = append(lines, ledger.ReplenishmentParams{ProductID: productID, Amount: amount, TotalPrice: total})
	}

	slog.Info("invoice parsed", "lines", len(lines), "charset", sh.Charset, "headerless", sh.Headerless)

	return lines, nil
}

func cellError(rec sheet.Record, field string) error {
	return shoperr.Field(shoperr.ErrWrongType, fmt.Sprintf("line %d: %s", rec.Line, field))
}
