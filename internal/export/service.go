// Package export bundles ledger entries and the financial overview for the
// shop's accountants.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/overview"
)

const (
	EntriesFile  = "entries.csv"
	OverviewFile = "overview.txt"
)

// Entries lists ledger entries of one kind.
type Entries interface {
	ListEntries(ctx context.Context, kind ledger.Kind, filter ledger.ListFilter) ([]ledger.Entry, error)
}

// Overviews computes the financial overview.
type Overviews interface {
	Get(ctx context.Context) (*overview.Overview, error)
}

type Service struct {
	entries   Entries
	overviews Overviews
	now       func() time.Time
}

func NewService(entries Entries, overviews Overviews) *Service {
	return &Service{entries: entries, overviews: overviews, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Bundle is everything that goes into one export.
type Bundle struct {
	CreatedAt time.Time
	Filter    ledger.ListFilter
	Entries   []ledger.Entry
	Overview  *overview.Overview
}

// FileName is the archive name offered for download or written to disk.
func (b *Bundle) FileName() string {
	return fmt.Sprintf("shopdb_export_%s_%s.zip", b.CreatedAt.Format("20060102"), uuid.NewString()[:8])
}

// Collect gathers the entries of every kind matching filter and the current
// overview. The overview always covers the whole ledger.
func (s *Service) Collect(ctx context.Context, filter ledger.ListFilter) (*Bundle, error) {
	b := &Bundle{CreatedAt: s.now(), Filter: filter}

	for _, kind := range ledger.Kinds {
		entries, err := s.entries.ListEntries(ctx, kind, filter)
		if err != nil {
			return nil, fmt.Errorf("listing %s entries: %w", kind, err)
		}

		b.Entries = append(b.Entries, entries...)
	}

	o, err := s.overviews.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing overview: %w", err)
	}

	b.Overview = o

	return b, nil
}

// WriteZip writes the bundle as a zip archive holding EntriesFile and
// OverviewFile.
func (b *Bundle) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{name: EntriesFile, write: func(w io.Writer) error { return WriteEntries(w, b.Entries) }},
		{name: OverviewFile, write: func(w io.Writer) error {
			_, err := io.WriteString(w, b.Summary())
			return err
		}},
	}

	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: zip.Deflate, Modified: b.CreatedAt})
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.name, err)
		}

		if err := f.write(fw); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}

	return nil
}

var entriesHeader = []string{
	"kind", "id", "timestamp", "admin_id", "user_id", "product_id", "amount", "value", "revoked", "revoke_count", "comment",
}

// WriteEntries writes one CSV line per entry. Replenishment collections
// become one line per replenishment, all sharing the collection id.
func WriteEntries(w io.Writer, entries []ledger.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(entriesHeader); err != nil {
		return err
	}

	for _, e := range entries {
		for _, line := range lines(e) {
			if err := cw.Write(line); err != nil {
				return err
			}
		}
	}

	cw.Flush()

	return cw.Error()
}

func lines(e ledger.Entry) [][]string {
	base := e.Base()

	line := func(userID, productID, amount *int64, value int64) []string {
		return []string{
			string(e.Kind()),
			strconv.FormatInt(base.ID, 10),
			base.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatInt(base.AdminID, 10),
			optional(userID),
			optional(productID),
			optional(amount),
			FormatCents(value),
			strconv.FormatBool(base.Revoked),
			strconv.Itoa(len(base.History)),
			base.Comment,
		}
	}

	switch e := e.(type) {
	case *ledger.Purchase:
		return [][]string{line(&e.UserID, &e.ProductID, &e.Amount, e.Value())}
	case *ledger.Deposit:
		return [][]string{line(&e.UserID, nil, nil, e.Value())}
	case *ledger.Refund:
		return [][]string{line(&e.UserID, nil, nil, e.Value())}
	case *ledger.ReplenishmentCollection:
		out := make([][]string, 0, len(e.Replenishments))
		for _, r := range e.Replenishments {
			out = append(out, line(nil, &r.ProductID, &r.Amount, r.TotalPrice))
		}

		return out
	default:
		return [][]string{line(nil, nil, nil, e.Value())}
	}
}

func optional(v *int64) string {
	if v == nil {
		return ""
	}

	return strconv.FormatInt(*v, 10)
}

// FormatCents renders an amount of cents as euros, e.g. "-12.50".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Summary renders the overview and an entry count per kind as plain text.
func (b *Bundle) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "shop-db export %s\n", b.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Period: %s\n\n", period(b.Filter))

	counts := make(map[ledger.Kind][2]int)

	for _, e := range b.Entries {
		c := counts[e.Kind()]
		c[0]++

		if e.Base().Revoked {
			c[1]++
		}

		counts[e.Kind()] = c
	}

	sb.WriteString("Entries\n")

	for _, kind := range ledger.Kinds {
		c := counts[kind]
		fmt.Fprintf(&sb, "* %-16s %5d (%d revoked)\n", overview.Label(kind), c[0], c[1])
	}

	if b.Overview != nil {
		sb.WriteString("\nIncomes\n")
		writeSide(&sb, b.Overview.Incomes)
		sb.WriteString("\nExpenses\n")
		writeSide(&sb, b.Overview.Expenses)
		fmt.Fprintf(&sb, "\n%-18s %12s €\n", "Total balance", FormatCents(b.Overview.TotalBalance))
	}

	return sb.String()
}

func writeSide(sb *strings.Builder, side overview.Side) {
	for _, it := range side.Items {
		fmt.Fprintf(sb, "* %-16s %12s €\n", it.Name, FormatCents(it.Amount))
	}

	fmt.Fprintf(sb, "%-18s %12s €\n", "Total", FormatCents(side.Amount))
}

func period(f ledger.ListFilter) string {
	from, to := "beginning", "now"

	if f.StartDate != nil {
		from = f.StartDate.Format(time.DateOnly)
	}

	if f.EndDate != nil {
		to = f.EndDate.AddDate(0, 0, -1).Format(time.DateOnly)
	}

	return from + " to " + to
}
