package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tim1593/shop-db2/internal/catalog"
	catalogstore "github.com/Tim1593/shop-db2/internal/catalog/store"
	"github.com/Tim1593/shop-db2/internal/database"
	ledgerstore "github.com/Tim1593/shop-db2/internal/ledger/store"
	"github.com/Tim1593/shop-db2/internal/revocation"
	revocationstore "github.com/Tim1593/shop-db2/internal/revocation/store"
	"github.com/Tim1593/shop-db2/internal/shoperr"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (stocktaking.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning stocktaking tx: %w", err)
	}

	return &stocktakingTx{tx: dbTx}, nil
}

func (s *Store) GetCollection(ctx context.Context, id int64) (*stocktaking.Collection, error) {
	return GetCollection(ctx, s.db, id)
}

func (s *Store) ListCollections(ctx context.Context) ([]*stocktaking.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, admin_id, revoked
		FROM stocktakingcollections
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing stocktakings: %w", err)
	}
	defer rows.Close()

	var collections []*stocktaking.Collection

	for rows.Next() {
		var c stocktaking.Collection
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.AdminID, &c.Revoked); err != nil {
			return nil, fmt.Errorf("scanning stocktaking: %w", err)
		}

		collections = append(collections, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stocktakings: %w", err)
	}

	if len(collections) == 0 {
		return collections, nil
	}

	history, err := revocationstore.HistoryByKind(ctx, s.db, stocktaking.RevocationKind)
	if err != nil {
		return nil, err
	}

	for _, c := range collections {
		c.History = history[c.ID]
	}

	return collections, nil
}

func (s *Store) Window(ctx context.Context, startID, endID int64) (*stocktaking.Window, error) {
	snap, err := database.Snapshot(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer snap.Rollback()

	return LoadWindow(ctx, snap, startID, endID)
}

// GetCollection reads one collection with its items and revoke history.
func GetCollection(ctx context.Context, q database.Querier, id int64) (*stocktaking.Collection, error) {
	var c stocktaking.Collection

	err := q.QueryRowContext(ctx, `
		SELECT id, timestamp, admin_id, revoked
		FROM stocktakingcollections
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Timestamp, &c.AdminID, &c.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.Field(shoperr.ErrEntryNotFound, "stocktakingcollection")
		}

		return nil, fmt.Errorf("getting stocktaking: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT product_id, count
		FROM stocktakings
		WHERE collection_id = $1
		ORDER BY product_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("listing stocktaking items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it stocktaking.Item
		if err := rows.Scan(&it.ProductID, &it.Count); err != nil {
			return nil, fmt.Errorf("scanning stocktaking item: %w", err)
		}

		c.Items = append(c.Items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stocktaking items: %w", err)
	}

	c.History, err = revocationstore.History(ctx, q, stocktaking.RevocationKind, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadWindow reads both bounds, the movements between them and the prices at
// the end. q should be a snapshot transaction.
func LoadWindow(ctx context.Context, q database.Querier, startID, endID int64) (*stocktaking.Window, error) {
	start, err := GetCollection(ctx, q, startID)
	if err != nil {
		return nil, err
	}

	end, err := GetCollection(ctx, q, endID)
	if err != nil {
		return nil, err
	}

	movements, err := ledgerstore.Movements(ctx, q, start.Timestamp, end.Timestamp)
	if err != nil {
		return nil, err
	}

	prices, err := catalogstore.PricesAt(ctx, q, end.Timestamp)
	if err != nil {
		return nil, err
	}

	return &stocktaking.Window{Start: start, End: end, Movements: movements, Prices: prices}, nil
}

// Bounds returns the ids of the earliest and latest non-revoked collections.
// ok is false when there are fewer than two.
func Bounds(ctx context.Context, q database.Querier) (first, last int64, ok bool, err error) {
	var n int

	err = q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE((SELECT id FROM stocktakingcollections WHERE NOT revoked ORDER BY timestamp ASC, id ASC LIMIT 1), 0),
			COALESCE((SELECT id FROM stocktakingcollections WHERE NOT revoked ORDER BY timestamp DESC, id DESC LIMIT 1), 0)
		FROM stocktakingcollections
		WHERE NOT revoked
	`).Scan(&n, &first, &last)
	if err != nil {
		return 0, 0, false, fmt.Errorf("finding stocktaking bounds: %w", err)
	}

	return first, last, n >= 2, nil
}

type stocktakingTx struct {
	tx *sql.Tx
}

func (t *stocktakingTx) Commit() error   { return t.tx.Commit() }
func (t *stocktakingTx) Rollback() error { return t.tx.Rollback() }

func (t *stocktakingTx) CountableProductIDs(ctx context.Context) ([]int64, error) {
	return catalogstore.CountableProductIDs(ctx, t.tx)
}

func (t *stocktakingTx) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return catalogstore.GetProduct(ctx, t.tx, id)
}

func (t *stocktakingTx) DeactivateProduct(ctx context.Context, id int64) error {
	return catalogstore.SetProductActive(ctx, t.tx, id, false)
}

func (t *stocktakingTx) Revocations() revocation.Store {
	return revocationstore.New(t.tx, stocktaking.RevocationKind, "stocktakingcollections")
}

func (t *stocktakingTx) InsertCollection(ctx context.Context, c *stocktaking.Collection) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO stocktakingcollections (timestamp, admin_id)
		VALUES ($1, $2)
		RETURNING id
	`, c.Timestamp, c.AdminID).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("inserting stocktaking: %w", err)
	}

	for _, it := range c.Items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO stocktakings (collection_id, product_id, count)
			VALUES ($1, $2, $3)
		`, c.ID, it.ProductID, it.Count)
		if err != nil {
			if database.IsUniqueViolation(err) || database.IsForeignKeyViolation(err) {
				return shoperr.ErrCouldNotCreateEntry
			}

			return fmt.Errorf("inserting stocktaking item: %w", err)
		}
	}

	return nil
}
