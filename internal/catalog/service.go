package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	VerifyUser(ctx context.Context, id, rankID, adminID int64, at time.Time) error

	GetRank(ctx context.Context, id int64) (*Rank, error)
	ListRanks(ctx context.Context) ([]*Rank, error)

	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product, price *Price) error
	PriceHistory(ctx context.Context, productID int64) ([]Price, error)

	CreateTag(ctx context.Context, t *Tag) error
	GetTag(ctx context.Context, id int64) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	ProductTags(ctx context.Context, productID int64) ([]*Tag, error)
	AssignTag(ctx context.Context, productID, tagID int64) error
	UnassignTag(ctx context.Context, productID, tagID int64) error
}

type Service struct {
	repo              Repository
	minPasswordLength int
	now               func() time.Time
}

func NewService(repo Repository, minPasswordLength int) *Service {
	return &Service{repo: repo, minPasswordLength: minPasswordLength, now: time.Now}
}

type RegisterParams struct {
	Firstname string
	Lastname  string
	Password  string
}

// Register creates an unverified, active, non-admin user. The password is
// optional; users without one cannot log in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	lastname := strings.TrimSpace(params.Lastname)
	if lastname == "" {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "lastname")
	}

	u := &User{
		Firstname: strings.TrimSpace(params.Firstname),
		Lastname:  lastname,
		Active:    true,
	}

	if params.Password != "" {
		if len(params.Password) < s.minPasswordLength {
			return nil, shoperr.ErrPasswordTooShort
		}

		hash, err := auth.HashPassword(params.Password)
		if err != nil {
			return nil, err
		}

		u.PasswordHash = hash
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID)

	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

// VerifyUser assigns a rank to a freshly registered user.
func (s *Service) VerifyUser(ctx context.Context, admin auth.Admin, userID, rankID int64) (*User, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Verified() {
		return nil, shoperr.ErrUserAlreadyVerified
	}

	if _, err := s.repo.GetRank(ctx, rankID); err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repo.VerifyUser(ctx, userID, rankID, admin.ID, at); err != nil {
		return nil, err
	}

	u.RankID = &rankID
	u.VerifiedBy = &admin.ID
	u.VerifiedAt = &at

	slog.InfoContext(ctx, "user verified", "user_id", userID, "rank_id", rankID, "admin_id", admin.ID)

	return u, nil
}

func (s *Service) ListRanks(ctx context.Context) ([]*Rank, error) {
	return s.repo.ListRanks(ctx)
}

type CreateProductParams struct {
	Name      string
	Price     int64
	Barcode   *string
	Countable bool
}

func (s *Service) CreateProduct(ctx context.Context, admin auth.Admin, params CreateProductParams) (*Product, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "name")
	}

	if params.Price < 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	p := &Product{
		Name:      name,
		Barcode:   normalizeBarcode(params.Barcode),
		Active:    true,
		Countable: params.Countable,
		Price:     params.Price,
		CreatedBy: admin.ID,
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "product created", "product_id", p.ID, "admin_id", admin.ID)

	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) PriceHistory(ctx context.Context, productID int64) ([]Price, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	return s.repo.PriceHistory(ctx, productID)
}

// ProductUpdate holds the fields to change; nil fields are left alone.
type ProductUpdate struct {
	Name      *string
	Price     *int64
	Barcode   *string
	Active    *bool
	Countable *bool
}

// UpdateProduct applies the fields that differ from the stored product and
// returns their names. A price change appends to the price history.
func (s *Service) UpdateProduct(ctx context.Context, admin auth.Admin, id int64, upd ProductUpdate) ([]string, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated []string

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, shoperr.Field(shoperr.ErrInvalidData, "name")
		}

		if name != p.Name {
			p.Name = name
			updated = append(updated, "name")
		}
	}

	if upd.Barcode != nil {
		barcode := normalizeBarcode(upd.Barcode)
		if !equalBarcode(barcode, p.Barcode) {
			p.Barcode = barcode
			updated = append(updated, "barcode")
		}
	}

	if upd.Active != nil && *upd.Active != p.Active {
		p.Active = *upd.Active
		updated = append(updated, "active")
	}

	if upd.Countable != nil && *upd.Countable != p.Countable {
		p.Countable = *upd.Countable
		updated = append(updated, "countable")
	}

	var price *Price

	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, shoperr.ErrInvalidAmount
		}

		if *upd.Price != p.Price {
			p.Price = *upd.Price
			price = &Price{ProductID: p.ID, Price: *upd.Price, AdminID: admin.ID, Timestamp: s.now()}
			updated = append(updated, "price")
		}
	}

	if len(updated) == 0 {
		return nil, shoperr.ErrNothingHasChanged
	}

	if err := s.repo.UpdateProduct(ctx, p, price); err != nil {
		return nil, fmt.Errorf("updating product %d: %w", id, err)
	}

	slog.InfoContext(ctx, "product updated", "product_id", id, "fields", updated, "admin_id", admin.ID)

	return updated, nil
}

func (s *Service) CreateTag(ctx context.Context, admin auth.Admin, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "name")
	}

	t := &Tag{Name: name, CreatedBy: admin.ID}
	if err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "tag created", "tag_id", t.ID, "admin_id", admin.ID)

	return t, nil
}

func (s *Service) ListTags(ctx context.Context) ([]*Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *Service) ProductTags(ctx context.Context, productID int64) ([]*Tag, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	return s.repo.ProductTags(ctx, productID)
}

// AssignTag attaches a tag to a product. Assigning it twice fails with
// shoperr.ErrEntryAlreadyExists.
func (s *Service) AssignTag(ctx context.Context, admin auth.Admin, productID, tagID int64) error {
	if err := s.tagTarget(ctx, productID, tagID); err != nil {
		return err
	}

	if err := s.repo.AssignTag(ctx, productID, tagID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "tag assigned", "product_id", productID, "tag_id", tagID, "admin_id", admin.ID)

	return nil
}

// UnassignTag detaches a tag. A tag the product does not carry is not found.
func (s *Service) UnassignTag(ctx context.Context, admin auth.Admin, productID, tagID int64) error {
	if err := s.tagTarget(ctx, productID, tagID); err != nil {
		return err
	}

	if err := s.repo.UnassignTag(ctx, productID, tagID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "tag unassigned", "product_id", productID, "tag_id", tagID, "admin_id", admin.ID)

	return nil
}

func (s *Service) tagTarget(ctx context.Context, productID, tagID int64) error {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}

	_, err := s.repo.GetTag(ctx, tagID)

	return err
}

// An empty barcode clears it.
func normalizeBarcode(b *string) *string {
	if b == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*b)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func equalBarcode(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
