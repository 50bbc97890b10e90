package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Tim1593/shop-db2/internal/catalog"
	catalogstore "github.com/Tim1593/shop-db2/internal/catalog/store"
	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/revocation"
	revocationstore "github.com/Tim1593/shop-db2/internal/revocation/store"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger tx: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

func (s *Store) GetEntry(ctx context.Context, kind ledger.Kind, id int64) (ledger.Entry, error) {
	return GetEntry(ctx, s.db, kind, id)
}

func (s *Store) ListEntries(ctx context.Context, kind ledger.Kind, filter ledger.ListFilter) ([]ledger.Entry, error) {
	return ListEntries(ctx, s.db, kind, filter)
}

func (s *Store) UserSums(ctx context.Context, userID int64) (ledger.Sums, error) {
	if _, err := catalogstore.GetUser(ctx, s.db, userID); err != nil {
		return nil, err
	}

	return Sums(ctx, s.db, &userID)
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) Commit() error   { return t.tx.Commit() }
func (t *ledgerTx) Rollback() error { return t.tx.Rollback() }

func (t *ledgerTx) GetUser(ctx context.Context, id int64) (*catalog.User, error) {
	return catalogstore.GetUser(ctx, t.tx, id)
}

func (t *ledgerTx) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return catalogstore.GetProduct(ctx, t.tx, id)
}

func (t *ledgerTx) ActivateProduct(ctx context.Context, id int64) error {
	return catalogstore.SetProductActive(ctx, t.tx, id, true)
}

func (t *ledgerTx) Revocations(kind ledger.Kind) revocation.Store {
	return revocationstore.New(t.tx, string(kind), tables[kind].name)
}

func (t *ledgerTx) InsertEntry(ctx context.Context, e ledger.Entry) error {
	h := e.Base()

	var err error

	switch v := e.(type) {
	case *ledger.Purchase:
		err = t.tx.QueryRowContext(ctx, `
			INSERT INTO purchases (timestamp, user_id, product_id, amount, productprice, admin_id, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, h.Timestamp, v.UserID, v.ProductID, v.Amount, v.ProductPrice, h.AdminID, h.Comment).Scan(&h.ID)
	case *ledger.Deposit:
		err = t.tx.QueryRowContext(ctx, `
			INSERT INTO deposits (timestamp, user_id, amount, admin_id, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, h.Timestamp, v.UserID, v.Amount, h.AdminID, h.Comment).Scan(&h.ID)
	case *ledger.Refund:
		err = t.tx.QueryRowContext(ctx, `
			INSERT INTO refunds (timestamp, user_id, total_price, admin_id, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, h.Timestamp, v.UserID, v.TotalPrice, h.AdminID, h.Comment).Scan(&h.ID)
	case *ledger.Payoff:
		err = t.tx.QueryRowContext(ctx, `
			INSERT INTO payoffs (timestamp, amount, admin_id, comment)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, h.Timestamp, v.Amount, h.AdminID, h.Comment).Scan(&h.ID)
	case *ledger.Turnover:
		err = t.tx.QueryRowContext(ctx, `
			INSERT INTO turnovers (timestamp, amount, admin_id, comment)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, h.Timestamp, v.Amount, h.AdminID, h.Comment).Scan(&h.ID)
	case *ledger.ReplenishmentCollection:
		err = t.insertCollection(ctx, v)
	default:
		return fmt.Errorf("inserting entry: unsupported type %T", e)
	}

	if err != nil {
		if database.IsUniqueViolation(err) || database.IsForeignKeyViolation(err) {
			return shoperr.ErrCouldNotCreateEntry
		}

		return fmt.Errorf("inserting %s: %w", e.Kind(), err)
	}

	return nil
}

func (t *ledgerTx) insertCollection(ctx context.Context, c *ledger.ReplenishmentCollection) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO replenishmentcollections (timestamp, admin_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id
	`, c.Timestamp, c.AdminID, c.Comment).Scan(&c.ID)
	if err != nil {
		return err
	}

	for i := range c.Replenishments {
		r := &c.Replenishments[i]

		err := t.tx.QueryRowContext(ctx, `
			INSERT INTO replenishments (collection_id, product_id, amount, total_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, c.ID, r.ProductID, r.Amount, r.TotalPrice).Scan(&r.ID)
		if err != nil {
			return err
		}
	}

	return nil
}
