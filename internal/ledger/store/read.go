package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/ledger"
	revocationstore "github.com/Tim1593/shop-db2/internal/revocation/store"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type table struct {
	name string
	// value is the SQL expression of ledger.Entry.Value over alias t.
	value string
	// userColumn is empty for kinds that do not reference a user.
	userColumn string
}

var tables = map[ledger.Kind]table{
	ledger.KindPurchase: {name: "purchases", value: "t.amount * t.productprice", userColumn: "user_id"},
	ledger.KindDeposit:  {name: "deposits", value: "t.amount", userColumn: "user_id"},
	ledger.KindRefund:   {name: "refunds", value: "t.total_price", userColumn: "user_id"},
	ledger.KindPayoff:   {name: "payoffs", value: "t.amount"},
	ledger.KindTurnover: {name: "turnovers", value: "t.amount"},
	ledger.KindReplenishmentCollection: {
		name:  "replenishmentcollections",
		value: "(SELECT COALESCE(SUM(r.total_price), 0) FROM replenishments r WHERE r.collection_id = t.id)",
	},
}

func columns(kind ledger.Kind) string {
	const common = "t.id, t.timestamp, t.admin_id, t.comment, t.revoked"

	switch kind {
	case ledger.KindPurchase:
		return common + ", t.user_id, t.product_id, t.amount, t.productprice"
	case ledger.KindDeposit:
		return common + ", t.user_id, t.amount"
	case ledger.KindRefund:
		return common + ", t.user_id, t.total_price"
	case ledger.KindPayoff, ledger.KindTurnover:
		return common + ", t.amount"
	default:
		return common
	}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads a row in the column order of columns(kind).
func scanEntry(s scanner, kind ledger.Kind) (ledger.Entry, error) {
	var h ledger.Header

	common := []any{&h.ID, &h.Timestamp, &h.AdminID, &h.Comment, &h.Revoked}

	switch kind {
	case ledger.KindPurchase:
		p := &ledger.Purchase{}
		if err := s.Scan(append(common, &p.UserID, &p.ProductID, &p.Amount, &p.ProductPrice)...); err != nil {
			return nil, err
		}

		p.Header = h

		return p, nil
	case ledger.KindDeposit:
		d := &ledger.Deposit{}
		if err := s.Scan(append(common, &d.UserID, &d.Amount)...); err != nil {
			return nil, err
		}

		d.Header = h

		return d, nil
	case ledger.KindRefund:
		r := &ledger.Refund{}
		if err := s.Scan(append(common, &r.UserID, &r.TotalPrice)...); err != nil {
			return nil, err
		}

		r.Header = h

		return r, nil
	case ledger.KindPayoff:
		p := &ledger.Payoff{}
		if err := s.Scan(append(common, &p.Amount)...); err != nil {
			return nil, err
		}

		p.Header = h

		return p, nil
	case ledger.KindTurnover:
		t := &ledger.Turnover{}
		if err := s.Scan(append(common, &t.Amount)...); err != nil {
			return nil, err
		}

		t.Header = h

		return t, nil
	case ledger.KindReplenishmentCollection:
		if err := s.Scan(common...); err != nil {
			return nil, err
		}

		return &ledger.ReplenishmentCollection{Header: h}, nil
	}

	return nil, shoperr.Field(shoperr.ErrInvalidData, "kind")
}

// GetEntry reads one entry with its revoke history through q.
func GetEntry(ctx context.Context, q database.Querier, kind ledger.Kind, id int64) (ledger.Entry, error) {
	tbl, ok := tables[kind]
	if !ok {
		return nil, shoperr.Field(shoperr.ErrInvalidData, "kind")
	}

	query := `SELECT ` + columns(kind) + ` FROM ` + tbl.name + ` t WHERE t.id = $1`

	e, err := scanEntry(q.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.ErrEntryNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", kind, err)
	}

	history, err := revocationstore.History(ctx, q, string(kind), id)
	if err != nil {
		return nil, err
	}

	e.Base().History = history

	if c, ok := e.(*ledger.ReplenishmentCollection); ok {
		lines, err := replenishments(ctx, q, []int64{c.ID})
		if err != nil {
			return nil, err
		}

		c.Replenishments = lines[c.ID]
	}

	return e, nil
}

// ListEntries reads the entries of one kind in id order through q.
func ListEntries(ctx context.Context, q database.Querier, kind ledger.Kind, filter ledger.ListFilter) ([]ledger.Entry, error) {
	tbl, ok := tables[kind]
	if !ok {
		return nil, shoperr.Field(shoperr.ErrInvalidData, "kind")
	}

	query := `SELECT ` + columns(kind) + ` FROM ` + tbl.name + ` t WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		if tbl.userColumn == "" {
			return nil, shoperr.Field(shoperr.ErrInvalidData, "user_id")
		}

		query += fmt.Sprintf(" AND t.%s = $%d", tbl.userColumn, argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.timestamp >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.timestamp < $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY t.id ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var (
		entries []ledger.Entry
		ids     []int64
	)

	for rows.Next() {
		e, err := scanEntry(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}

		entries = append(entries, e)
		ids = append(ids, e.Base().ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", kind, err)
	}

	if len(entries) == 0 {
		return entries, nil
	}

	history, err := revocationstore.HistoryByKind(ctx, q, string(kind))
	if err != nil {
		return nil, err
	}

	var lines map[int64][]ledger.Replenishment

	if kind == ledger.KindReplenishmentCollection {
		lines, err = replenishments(ctx, q, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		h := e.Base()
		h.History = history[h.ID]

		if c, ok := e.(*ledger.ReplenishmentCollection); ok {
			c.Replenishments = lines[h.ID]
		}
	}

	return entries, nil
}

func replenishments(ctx context.Context, q database.Querier, collectionIDs []int64) (map[int64][]ledger.Replenishment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, collection_id, product_id, amount, total_price
		FROM replenishments
		WHERE collection_id = ANY($1)
		ORDER BY collection_id, id
	`, collectionIDs)
	if err != nil {
		return nil, fmt.Errorf("listing replenishments: %w", err)
	}
	defer rows.Close()

	lines := make(map[int64][]ledger.Replenishment)

	for rows.Next() {
		var (
			r            ledger.Replenishment
			collectionID int64
		)

		if err := rows.Scan(&r.ID, &collectionID, &r.ProductID, &r.Amount, &r.TotalPrice); err != nil {
			return nil, fmt.Errorf("scanning replenishment: %w", err)
		}

		lines[collectionID] = append(lines[collectionID], r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating replenishments: %w", err)
	}

	return lines, nil
}

// Sums totals the non-revoked entries of every kind, optionally restricted to
// one user. Kinds without a user column are skipped when userID is set.
func Sums(ctx context.Context, q database.Querier, userID *int64) (ledger.Sums, error) {
	sums := make(ledger.Sums, len(ledger.Kinds))

	for _, kind := range ledger.Kinds {
		tbl := tables[kind]

		query := `
			SELECT
				COALESCE(SUM(v) FILTER (WHERE v > 0), 0),
				COALESCE(SUM(v) FILTER (WHERE v < 0), 0)
			FROM (SELECT ` + tbl.value + ` AS v FROM ` + tbl.name + ` t WHERE NOT t.revoked`

		var args []any

		if userID != nil {
			if tbl.userColumn == "" {
				continue
			}

			query += ` AND t.` + tbl.userColumn + ` = $1`

			args = append(args, *userID)
		}

		query += `) s`

		var totals ledger.Totals
		if err := q.QueryRowContext(ctx, query, args...).Scan(&totals.Positive, &totals.Negative); err != nil {
			return nil, fmt.Errorf("summing %s: %w", kind, err)
		}

		sums[kind] = totals
	}

	return sums, nil
}

// Movements sums purchased and replenished amounts per product for entries
// with start <= timestamp < end.
func Movements(ctx context.Context, q database.Querier, start, end time.Time) (map[int64]ledger.Movement, error) {
	movements := make(map[int64]ledger.Movement)

	rows, err := q.QueryContext(ctx, `
		SELECT product_id, SUM(amount)
		FROM purchases
		WHERE NOT revoked AND timestamp >= $1 AND timestamp < $2
		GROUP BY product_id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("summing purchases: %w", err)
	}

	if err := collect(rows, func(productID, amount int64) {
		m := movements[productID]
		m.Purchased = amount
		movements[productID] = m
	}); err != nil {
		return nil, fmt.Errorf("summing purchases: %w", err)
	}

	rows, err = q.QueryContext(ctx, `
		SELECT r.product_id, SUM(r.amount)
		FROM replenishments r
		JOIN replenishmentcollections c ON c.id = r.collection_id
		WHERE NOT c.revoked AND c.timestamp >= $1 AND c.timestamp < $2
		GROUP BY r.product_id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("summing replenishments: %w", err)
	}

	if err := collect(rows, func(productID, amount int64) {
		m := movements[productID]
		m.Replenished = amount
		movements[productID] = m
	}); err != nil {
		return nil, fmt.Errorf("summing replenishments: %w", err)
	}

	return movements, nil
}

func collect(rows *sql.Rows, fn func(productID, amount int64)) error {
	defer rows.Close()

	for rows.Next() {
		var productID, amount int64
		if err := rows.Scan(&productID, &amount); err != nil {
			return err
		}

		fn(productID, amount)
	}

	return rows.Err()
}
