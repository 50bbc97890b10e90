package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/export"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/overview"
	"github.com/Tim1593/shop-db2/internal/revocation"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeEntries map[ledger.Kind][]ledger.Entry

func (f fakeEntries) ListEntries(_ context.Context, kind ledger.Kind, _ ledger.ListFilter) ([]ledger.Entry, error) {
	return f[kind], nil
}

type fakeOverviews struct {
	o   *overview.Overview
	err error
}

func (f fakeOverviews) Get(context.Context) (*overview.Overview, error) {
	return f.o, f.err
}

func header(id int64, revoked bool) ledger.Header {
	h := ledger.Header{ID: id, Timestamp: now, AdminID: 1, Comment: "c"}
	if revoked {
		h.State = revocation.State{Revoked: true, History: []revocation.Event{{Timestamp: now, AdminID: 1, Revoked: true}}}
	}

	return h
}

func entries() fakeEntries {
	return fakeEntries{
		ledger.KindPurchase: {
			&ledger.Purchase{Header: header(1, false), UserID: 2, ProductID: 3, Amount: 2, ProductPrice: 125},
			&ledger.Purchase{Header: header(2, true), UserID: 2, ProductID: 3, Amount: 1, ProductPrice: 125},
		},
		ledger.KindDeposit: {
			&ledger.Deposit{Header: header(1, false), UserID: 2, Amount: -500},
		},
		ledger.KindReplenishmentCollection: {
			&ledger.ReplenishmentCollection{Header: header(4, false), Replenishments: []ledger.Replenishment{
				{ID: 1, ProductID: 3, Amount: 10, TotalPrice: 800},
				{ID: 2, ProductID: 5, Amount: 6, TotalPrice: 360},
			}},
		},
	}
}

func TestService_Collect(t *testing.T) {
	o := overview.Compute(overview.Figures{Sums: ledger.Sums{}})

	svc := export.NewService(entries(), fakeOverviews{o: &o}).WithClock(func() time.Time { return now })

	b, err := svc.Collect(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)

	assert.Len(t, b.Entries, 4)
	assert.Equal(t, now, b.CreatedAt)
	assert.Same(t, &o, b.Overview)

	kinds := make([]ledger.Kind, 0, len(b.Entries))
	for _, e := range b.Entries {
		kinds = append(kinds, e.Kind())
	}

	assert.Equal(t, []ledger.Kind{
		ledger.KindPurchase, ledger.KindPurchase, ledger.KindDeposit, ledger.KindReplenishmentCollection,
	}, kinds)
}

func TestService_CollectOverviewError(t *testing.T) {
	errDB := errors.New("db down")

	_, err := export.NewService(entries(), fakeOverviews{err: errDB}).Collect(context.Background(), ledger.ListFilter{})
	assert.ErrorIs(t, err, errDB)
}

func TestWriteEntries(t *testing.T) {
	var all []ledger.Entry
	for _, kind := range ledger.Kinds {
		all = append(all, entries()[kind]...)
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteEntries(&buf, all))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 6)
	assert.Equal(t, "kind", rows[0][0])
	assert.Equal(t, []string{"purchase", "1", "2026-03-01T12:00:00Z", "1", "2", "3", "2", "2.50", "false", "0", "c"}, rows[1])
	assert.Equal(t, []string{"purchase", "2", "2026-03-01T12:00:00Z", "1", "2", "3", "1", "1.25", "true", "1", "c"}, rows[2])
	assert.Equal(t, []string{"deposit", "1", "2026-03-01T12:00:00Z", "1", "2", "", "", "-5.00", "false", "0", "c"}, rows[3])
	assert.Equal(t, "replenishmentcollection", rows[4][0])
	assert.Equal(t, "8.00", rows[4][7])
	assert.Equal(t, "5", rows[5][5])
	assert.Equal(t, "3.60", rows[5][7])
}

func TestBundle_WriteZip(t *testing.T) {
	o := overview.Compute(overview.Figures{Sums: ledger.Sums{
		ledger.KindPurchase: {Positive: 250},
	}})

	b := &export.Bundle{
		CreatedAt: now,
		Filter:    ledger.ListFilter{StartDate: new(now.AddDate(0, -1, 0))},
		Entries:   entries()[ledger.KindPurchase],
		Overview:  &o,
	}

	var buf bytes.Buffer
	require.NoError(t, b.WriteZip(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, export.EntriesFile, zr.File[0].Name)
	assert.Equal(t, export.OverviewFile, zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)

	defer f.Close()

	summary, err := io.ReadAll(f)
	require.NoError(t, err)

	assert.Contains(t, string(summary), "Period: 2026-02-01 to now")
	assert.Regexp(t, `Purchases\s+2 \(1 revoked\)`, string(summary))
	assert.Contains(t, string(summary), "2.50 €")
}

func TestFormatCents(t *testing.T) {
	for cents, want := range map[int64]string{0: "0.00", 5: "0.05", -1250: "-12.50", 123456: "1234.56"} {
		assert.Equal(t, want, export.FormatCents(cents))
	}
}

func TestBundle_FileName(t *testing.T) {
	b := &export.Bundle{CreatedAt: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}

	assert.Regexp(t, `^shopdb_export_20260504_[0-9a-f]{8}\.zip$`, b.FileName())
	assert.NotEqual(t, b.FileName(), b.FileName())
}
