package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/revocation"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Table persists revocation state of one entry table. The revoked flag lives on
// the entry row and the audit trail in revoke_history keyed by kind.
type Table struct {
	q     database.Querier
	kind  string
	table string
}

// New returns a Table bound to q. table must be a trusted identifier.
func New(q database.Querier, kind, table string) *Table {
	return &Table{q: q, kind: kind, table: table}
}

func (t *Table) Lock(ctx context.Context, id int64) (*revocation.State, error) {
	var state revocation.State

	query := `SELECT revoked FROM ` + t.table + ` WHERE id = $1 FOR UPDATE`
	if err := t.q.QueryRowContext(ctx, query, id).Scan(&state.Revoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.ErrEntryNotFound
		}

		return nil, fmt.Errorf("locking %s: %w", t.kind, err)
	}

	history, err := History(ctx, t.q, t.kind, id)
	if err != nil {
		return nil, err
	}

	state.History = history

	return &state, nil
}

func (t *Table) Append(ctx context.Context, id int64, ev revocation.Event) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO revoke_history (entry_kind, entry_id, timestamp, admin_id, revoked)
		VALUES ($1, $2, $3, $4, $5)
	`, t.kind, id, ev.Timestamp, ev.AdminID, ev.Revoked)
	if err != nil {
		return fmt.Errorf("inserting revoke event: %w", err)
	}

	query := `UPDATE ` + t.table + ` SET revoked = $1 WHERE id = $2`
	if _, err := t.q.ExecContext(ctx, query, ev.Revoked, id); err != nil {
		return fmt.Errorf("updating %s revoked flag: %w", t.kind, err)
	}

	return nil
}

// History returns the audit trail of one entry in append order.
func History(ctx context.Context, q database.Querier, kind string, id int64) ([]revocation.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT timestamp, admin_id, revoked
		FROM revoke_history
		WHERE entry_kind = $1 AND entry_id = $2
		ORDER BY id ASC
	`, kind, id)
	if err != nil {
		return nil, fmt.Errorf("listing revoke history: %w", err)
	}
	defer rows.Close()

	var events []revocation.Event

	for rows.Next() {
		var ev revocation.Event
		if err := rows.Scan(&ev.Timestamp, &ev.AdminID, &ev.Revoked); err != nil {
			return nil, fmt.Errorf("scanning revoke event: %w", err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revoke history: %w", err)
	}

	return events, nil
}

// HistoryByKind returns the audit trails of all entries of one kind, keyed by
// entry id.
func HistoryByKind(ctx context.Context, q database.Querier, kind string) (map[int64][]revocation.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT entry_id, timestamp, admin_id, revoked
		FROM revoke_history
		WHERE entry_kind = $1
		ORDER BY entry_id ASC, id ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("listing revoke history: %w", err)
	}
	defer rows.Close()

	history := make(map[int64][]revocation.Event)

	for rows.Next() {
		var (
			id int64
			ev revocation.Event
		)

		if err := rows.Scan(&id, &ev.Timestamp, &ev.AdminID, &ev.Revoked); err != nil {
			return nil, fmt.Errorf("scanning revoke event: %w", err)
		}

		history[id] = append(history[id], ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revoke history: %w", err)
	}

	return history, nil
}
