// Package importer turns uploaded spreadsheets into parameters for
// stocktaking and replenishment entries. Nothing is written; the result is a
// preview the administrator confirms through the regular create endpoints.
package importer

import (
	"github.com/Tim1593/shop-db2/internal/importer/sheet"
)

// Format names an upload layout.
type Format string

const (
	FormatCountSheet Format = "stocktaking"
	FormatInvoice    Format = "replenishments"
)

const (
	fieldProductID  = "product_id"
	fieldCount      = "count"
	fieldKeepActive = "keep_active"
	fieldAmount     = "amount"
	fieldTotalPrice = "total_price"
)

var productColumn = sheet.Column{
	Field:    fieldProductID,
	Aliases:  []string{"product", "id", "produkt", "produkt_id", "artikel", "artikelnummer"},
	Required: true,
}

// countSheet is a stocktaking: one line per product with the number of
// items found on the shelf.
var countSheet = &sheet.Profile{
	Name: string(FormatCountSheet),
	Columns: []sheet.Column{
		productColumn,
		{Field: fieldCount, Aliases: []string{"anzahl", "bestand", "stock"}, Required: true},
		{Field: fieldKeepActive, Aliases: []string{"aktiv_lassen", "keep", "behalten"}},
	},
}

// invoice is a supplier invoice: items delivered and the price paid for
// them in euros.
var invoice = &sheet.Profile{
	Name: string(FormatInvoice),
	Columns: []sheet.Column{
		productColumn,
		{Field: fieldAmount, Aliases: []string{"menge", "quantity", "stück"}, Required: true},
		{Field: fieldTotalPrice, Aliases: []string{"gesamtpreis", "summe", "total", "preis"}, Required: true},
	},
}
