package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/database/databasetest"
	"github.com/Tim1593/shop-db2/internal/ledger"
	"github.com/Tim1593/shop-db2/internal/ledger/store"
	revocationstore "github.com/Tim1593/shop-db2/internal/revocation/store"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type seed struct {
	admin, member, other int64
	coffee, tea          int64
}

func insert(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()

	var id int64
	require.NoError(t, db.QueryRowContext(context.Background(), query+` RETURNING id`, args...).Scan(&id))

	return id
}

func seedCatalog(t *testing.T, db *sql.DB) seed {
	t.Helper()

	var s seed

	s.admin = insert(t, db, `INSERT INTO users (firstname, lastname, is_admin) VALUES ('Ada', 'Admin', TRUE)`)
	s.member = insert(t, db, `INSERT INTO users (firstname, lastname) VALUES ('Max', 'Member')`)
	s.other = insert(t, db, `INSERT INTO users (firstname, lastname) VALUES ('Olga', 'Other')`)
	s.coffee = insert(t, db, `INSERT INTO products (name, created_by) VALUES ('Coffee', $1)`, s.admin)
	s.tea = insert(t, db, `INSERT INTO products (name, created_by) VALUES ('Tea', $1)`, s.admin)

	return s
}

func purchase(t *testing.T, db *sql.DB, s seed, user, product, amount, price int64, at time.Time, revoked bool) int64 {
	t.Helper()

	return insert(t, db, `
		INSERT INTO purchases (timestamp, user_id, product_id, amount, productprice, admin_id, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, at, user, product, amount, price, s.admin, revoked)
}

func replenish(t *testing.T, db *sql.DB, s seed, at time.Time, revoked bool, lines map[int64][2]int64) int64 {
	t.Helper()

	id := insert(t, db, `
		INSERT INTO replenishmentcollections (timestamp, admin_id, revoked) VALUES ($1, $2, $3)
	`, at, s.admin, revoked)

	for product, l := range lines {
		insert(t, db, `
			INSERT INTO replenishments (collection_id, product_id, amount, total_price) VALUES ($1, $2, $3, $4)
		`, id, product, l[0], l[1])
	}

	return id
}

func TestSums(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := seedCatalog(t, db)

	purchase(t, db, s, s.member, s.coffee, 2, 150, t0, false)
	purchase(t, db, s, s.member, s.tea, 1, -50, t0, false)
	purchase(t, db, s, s.member, s.tea, 5, 100, t0, true)
	purchase(t, db, s, s.other, s.coffee, 1, 150, t0, false)
	insert(t, db, `INSERT INTO deposits (user_id, amount, admin_id) VALUES ($1, 1000, $2)`, s.member, s.admin)
	insert(t, db, `INSERT INTO deposits (user_id, amount, admin_id) VALUES ($1, 400, $2)`, s.other, s.admin)
	insert(t, db, `INSERT INTO refunds (user_id, total_price, admin_id, revoked) VALUES ($1, 90, $2, TRUE)`, s.member, s.admin)
	insert(t, db, `INSERT INTO turnovers (amount, admin_id) VALUES (-500, $1)`, s.admin)
	insert(t, db, `INSERT INTO payoffs (amount, admin_id) VALUES (700, $1)`, s.admin)
	replenish(t, db, s, t0, false, map[int64][2]int64{s.coffee: {100, 200}, s.tea: {20, 20}})
	replenish(t, db, s, t0, true, map[int64][2]int64{s.coffee: {10, 999}})

	type testCase struct {
		name   string
		userID *int64
		want   ledger.Sums
	}

	tests := []testCase{
		{
			name:   "AllEntries",
			userID: nil,
			want: ledger.Sums{
				ledger.KindPurchase:                {Positive: 450, Negative: -50},
				ledger.KindDeposit:                 {Positive: 1400},
				ledger.KindRefund:                  {},
				ledger.KindPayoff:                  {Positive: 700},
				ledger.KindTurnover:                {Negative: -500},
				ledger.KindReplenishmentCollection: {Positive: 220},
			},
		},
		{
			name:   "OneUser",
			userID: &s.member,
			want: ledger.Sums{
				ledger.KindPurchase: {Positive: 300, Negative: -50},
				ledger.KindDeposit:  {Positive: 1000},
				ledger.KindRefund:   {},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Sums(ctx, db, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSums_RevokeRoundTrip(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := seedCatalog(t, db)

	purchase(t, db, s, s.member, s.coffee, 1, 300, t0, false)
	turnover := insert(t, db, `INSERT INTO turnovers (amount, admin_id) VALUES (-500, $1)`, s.admin)

	svc := ledger.NewService(store.New(db)).WithClock(func() time.Time { return t0 })
	admin := auth.Admin{ID: s.admin}

	before, err := store.Sums(ctx, db, nil)
	require.NoError(t, err)

	_, err = svc.ToggleRevoke(ctx, admin, ledger.KindTurnover, turnover, true)
	require.NoError(t, err)

	revoked, err := store.Sums(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{}, revoked[ledger.KindTurnover])
	assert.Equal(t, before[ledger.KindPurchase], revoked[ledger.KindPurchase])

	_, err = svc.ToggleRevoke(ctx, admin, ledger.KindTurnover, turnover, false)
	require.NoError(t, err)

	after, err := store.Sums(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	history, err := revocationstore.History(ctx, db, string(ledger.KindTurnover), turnover)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Revoked)
	assert.False(t, history[1].Revoked)
	assert.Equal(t, s.admin, history[1].AdminID)
}

func TestStore_UserSums(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := seedCatalog(t, db)

	purchase(t, db, s, s.member, s.coffee, 2, 150, t0, false)
	insert(t, db, `INSERT INTO deposits (user_id, amount, admin_id) VALUES ($1, 1000, $2)`, s.member, s.admin)

	balance, err := ledger.NewService(store.New(db)).UserBalance(ctx, s.member)
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	_, err = store.New(db).UserSums(ctx, s.member+1000)
	assert.Error(t, err)
}

func TestMovements(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	s := seedCatalog(t, db)

	start := t0
	end := t0.Add(24 * time.Hour)

	purchase(t, db, s, s.member, s.coffee, 2, 150, start, false)
	purchase(t, db, s, s.member, s.coffee, 3, 150, start.Add(time.Hour), false)
	purchase(t, db, s, s.member, s.coffee, 7, 150, start.Add(2*time.Hour), true)
	purchase(t, db, s, s.member, s.coffee, 11, 150, end, false)
	purchase(t, db, s, s.member, s.tea, 13, 100, start.Add(-time.Second), false)
	replenish(t, db, s, start.Add(time.Hour), false, map[int64][2]int64{s.coffee: {10, 500}, s.tea: {4, 100}})
	replenish(t, db, s, start.Add(2*time.Hour), true, map[int64][2]int64{s.tea: {40, 1000}})
	replenish(t, db, s, end, false, map[int64][2]int64{s.tea: {6, 150}})

	got, err := store.Movements(ctx, db, start, end)
	require.NoError(t, err)

	assert.Equal(t, map[int64]ledger.Movement{
		s.coffee: {Purchased: 5, Replenished: 10},
		s.tea:    {Replenished: 4},
	}, got)
}
