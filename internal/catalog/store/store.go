package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/catalog"
	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectUserColumns = `
	u.id, u.firstname, u.lastname, u.password, u.is_admin, u.active,
	u.rank_id, u.verified_by, u.verified_at, u.creation_date
`

func scanUser(s scanner) (*catalog.User, error) {
	var u catalog.User

	var firstname sql.NullString

	if err := s.Scan(
		&u.ID, &firstname, &u.Lastname, &u.PasswordHash, &u.IsAdmin, &u.Active,
		&u.RankID, &u.VerifiedBy, &u.VerifiedAt, &u.CreatedAt,
	); err != nil {
		return nil, err
	}

	u.Firstname = firstname.String

	return &u, nil
}

// Current price is the latest product_prices row by timestamp, then id.
const selectProductColumns = `
	p.id, p.name, p.barcode, p.active, p.countable, p.created_by, p.creation_date,
	COALESCE((
		SELECT pp.price FROM product_prices pp
		WHERE pp.product_id = p.id
		ORDER BY pp.timestamp DESC, pp.id DESC
		LIMIT 1
	), 0)
`

func scanProduct(s scanner) (*catalog.Product, error) {
	var p catalog.Product

	if err := s.Scan(
		&p.ID, &p.Name, &p.Barcode, &p.Active, &p.Countable, &p.CreatedBy, &p.CreatedAt, &p.Price,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetUser reads one user through q, so ledger writes can use it inside their
// own transaction.
func GetUser(ctx context.Context, q database.Querier, id int64) (*catalog.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.Field(shoperr.ErrEntryNotFound, "user")
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

// GetProduct reads one product with its current price through q.
func GetProduct(ctx context.Context, q database.Querier, id int64) (*catalog.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, `SELECT `+selectProductColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.Field(shoperr.ErrEntryNotFound, "product")
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

// CountableProductIDs lists the ids of all active products that are counted
// at stocktakings.
func CountableProductIDs(ctx context.Context, q database.Querier) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM products WHERE active AND countable ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning product id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return ids, nil
}

// PricesAt returns the price of every product that had one at the given time.
func PricesAt(ctx context.Context, q database.Querier, at time.Time) (map[int64]int64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT ON (product_id) product_id, price
		FROM product_prices
		WHERE timestamp <= $1
		ORDER BY product_id, timestamp DESC, id DESC
	`, at)
	if err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]int64)

	for rows.Next() {
		var productID, price int64
		if err := rows.Scan(&productID, &price); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}

		prices[productID] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prices: %w", err)
	}

	return prices, nil
}

// SetProductActive updates the active flag of one product through q.
func SetProductActive(ctx context.Context, q database.Querier, id int64, active bool) error {
	if _, err := q.ExecContext(ctx, `UPDATE products SET active = $1 WHERE id = $2`, active, id); err != nil {
		return fmt.Errorf("updating product active flag: %w", err)
	}

	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *catalog.User) error {
	var firstname *string
	if u.Firstname != "" {
		firstname = &u.Firstname
	}

	query := `
		INSERT INTO users (firstname, lastname, password, is_admin, active, rank_id, verified_by, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, creation_date
	`

	err := s.db.QueryRowContext(ctx, query,
		firstname,
		u.Lastname,
		u.PasswordHash,
		u.IsAdmin,
		u.Active,
		u.RankID,
		u.VerifiedBy,
		u.VerifiedAt,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return shoperr.ErrCouldNotCreateEntry
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*catalog.User, error) {
	return GetUser(ctx, s.db, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]*catalog.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectUserColumns+` FROM users u ORDER BY u.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*catalog.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// VerifyUser only touches users that are still unverified, so two concurrent
// verifications cannot both succeed.
func (s *Store) VerifyUser(ctx context.Context, id, rankID, adminID int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET rank_id = $1, verified_by = $2, verified_at = $3
		WHERE id = $4 AND verified_at IS NULL
	`, rankID, adminID, at, id)
	if err != nil {
		return fmt.Errorf("verifying user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verifying user: %w", err)
	}

	if n == 0 {
		return shoperr.ErrUserAlreadyVerified
	}

	return nil
}

// FindIdentity serves the authorization gate.
func (s *Store) FindIdentity(ctx context.Context, userID int64) (*auth.Identity, error) {
	u, err := GetUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return &auth.Identity{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Active:       u.Active,
		Verified:     u.Verified(),
	}, nil
}

func (s *Store) GetRank(ctx context.Context, id int64) (*catalog.Rank, error) {
	var r catalog.Rank

	err := s.db.QueryRowContext(ctx, `SELECT id, name, debt_limit, active FROM ranks WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.DebtLimit, &r.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.Field(shoperr.ErrEntryNotFound, "rank")
		}

		return nil, fmt.Errorf("getting rank: %w", err)
	}

	return &r, nil
}

func (s *Store) ListRanks(ctx context.Context) ([]*catalog.Rank, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, debt_limit, active FROM ranks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing ranks: %w", err)
	}
	defer rows.Close()

	var ranks []*catalog.Rank

	for rows.Next() {
		var r catalog.Rank
		if err := rows.Scan(&r.ID, &r.Name, &r.DebtLimit, &r.Active); err != nil {
			return nil, fmt.Errorf("scanning rank: %w", err)
		}

		ranks = append(ranks, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ranks: %w", err)
	}

	return ranks, nil
}

// CreateRank is used by the bootstrap command only.
func (s *Store) CreateRank(ctx context.Context, r *catalog.Rank) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ranks (name, debt_limit, active)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, r.Name, r.DebtLimit, r.Active).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("creating rank: %w", err)
	}

	return nil
}

// CreateProduct inserts the product and seeds its price history in one
// transaction.
func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO products (name, barcode, active, countable, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, creation_date
	`, p.Name, p.Barcode, p.Active, p.Countable, p.CreatedBy).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return shoperr.ErrEntryAlreadyExists
		}

		return fmt.Errorf("creating product: %w", err)
	}

	if err := insertPrice(ctx, dbTx, catalog.Price{
		ProductID: p.ID,
		Price:     p.Price,
		AdminID:   p.CreatedBy,
		Timestamp: p.CreatedAt,
	}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return GetProduct(ctx, s.db, id)
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectProductColumns+` FROM products p ORDER BY p.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

// UpdateProduct writes the product row and, when price is set, appends it to
// the price history.
func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product, price *catalog.Price) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx, `
		UPDATE products
		SET name = $1, barcode = $2, active = $3, countable = $4
		WHERE id = $5
	`, p.Name, p.Barcode, p.Active, p.Countable, p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return shoperr.ErrEntryAlreadyExists
		}

		return fmt.Errorf("updating product: %w", err)
	}

	if price != nil {
		if err := insertPrice(ctx, dbTx, *price); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return shoperr.ErrCouldNotUpdateEntry
	}

	return nil
}

func (s *Store) PriceHistory(ctx context.Context, productID int64) ([]catalog.Price, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, price, admin_id, timestamp
		FROM product_prices
		WHERE product_id = $1
		ORDER BY timestamp ASC, id ASC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing price history: %w", err)
	}
	defer rows.Close()

	var prices []catalog.Price

	for rows.Next() {
		var pr catalog.Price
		if err := rows.Scan(&pr.ProductID, &pr.Price, &pr.AdminID, &pr.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning price: %w", err)
		}

		prices = append(prices, pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price history: %w", err)
	}

	return prices, nil
}

func insertPrice(ctx context.Context, q database.Querier, pr catalog.Price) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO product_prices (product_id, price, admin_id, timestamp)
		VALUES ($1, $2, $3, $4)
	`, pr.ProductID, pr.Price, pr.AdminID, pr.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting price: %w", err)
	}

	return nil
}

func (s *Store) CreateTag(ctx context.Context, t *catalog.Tag) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, created_by)
		VALUES ($1, $2)
		RETURNING id, creation_date
	`, t.Name, t.CreatedBy).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return shoperr.ErrEntryAlreadyExists
		}

		return fmt.Errorf("creating tag: %w", err)
	}

	return nil
}

func (s *Store) GetTag(ctx context.Context, id int64) (*catalog.Tag, error) {
	var t catalog.Tag

	err := s.db.QueryRowContext(ctx, `SELECT id, name, created_by, creation_date FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shoperr.Field(shoperr.ErrEntryNotFound, "tag")
		}

		return nil, fmt.Errorf("getting tag: %w", err)
	}

	return &t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]*catalog.Tag, error) {
	return s.queryTags(ctx, `SELECT id, name, created_by, creation_date FROM tags ORDER BY id ASC`)
}

func (s *Store) ProductTags(ctx context.Context, productID int64) ([]*catalog.Tag, error) {
	return s.queryTags(ctx, `
		SELECT t.id, t.name, t.created_by, t.creation_date
		FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = $1
		ORDER BY t.id ASC
	`, productID)
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*catalog.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []*catalog.Tag

	for rows.Next() {
		var t catalog.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}

		tags = append(tags, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return tags, nil
}

func (s *Store) AssignTag(ctx context.Context, productID, tagID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)`, productID, tagID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return shoperr.ErrEntryAlreadyExists
		}

		if database.IsForeignKeyViolation(err) {
			return shoperr.ErrCouldNotCreateEntry
		}

		return fmt.Errorf("assigning tag: %w", err)
	}

	return nil
}

func (s *Store) UnassignTag(ctx context.Context, productID, tagID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM product_tags WHERE product_id = $1 AND tag_id = $2`, productID, tagID)
	if err != nil {
		return fmt.Errorf("unassigning tag: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unassigning tag: %w", err)
	}

	if n == 0 {
		return shoperr.Field(shoperr.ErrEntryNotFound, "tag assignment")
	}

	return nil
}
