package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Tim1593/shop-db2/internal/database"
	ledgerstore "github.com/Tim1593/shop-db2/internal/ledger/store"
	"github.com/Tim1593/shop-db2/internal/overview"
	stocktakingstore "github.com/Tim1593/shop-db2/internal/stocktaking/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Figures(ctx context.Context) (*overview.Figures, error) {
	snap, err := database.Snapshot(ctx, s.db)
	if err != nil {
		return nil, err
	}
	defer snap.Rollback()

	sums, err := ledgerstore.Sums(ctx, snap, nil)
	if err != nil {
		return nil, err
	}

	f := &overview.Figures{Sums: sums}

	first, last, ok, err := stocktakingstore.Bounds(ctx, snap)
	if err != nil {
		return nil, err
	}

	if ok {
		f.Inventory, err = stocktakingstore.LoadWindow(ctx, snap, first, last)
		if err != nil {
			return nil, fmt.Errorf("loading inventory window: %w", err)
		}
	}

	return f, nil
}
