package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/catalog"
	"github.com/Tim1593/shop-db2/internal/revocation"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetEntry(ctx context.Context, kind Kind, id int64) (Entry, error)
	ListEntries(ctx context.Context, kind Kind, filter ListFilter) ([]Entry, error)
	// UserSums returns the sums of the user's non-revoked entries. It fails
	// with shoperr.ErrEntryNotFound for unknown users.
	UserSums(ctx context.Context, userID int64) (Sums, error)
}

// Tx is one all-or-nothing unit of work.
type Tx interface {
	GetUser(ctx context.Context, id int64) (*catalog.User, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ActivateProduct(ctx context.Context, id int64) error
	InsertEntry(ctx context.Context, e Entry) error
	Revocations(kind Kind) revocation.Store
	Commit() error
	Rollback() error
}

// ListFilter narrows entry listings. EndDate is exclusive.
type ListFilter struct {
	UserID    *int64
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for entry and revoke timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type PurchaseParams struct {
	UserID    int64
	ProductID int64
	Amount    int64
	Comment   string
}

// CreatePurchase records a purchase at the product's current price.
func (s *Service) CreatePurchase(ctx context.Context, admin auth.Admin, params PurchaseParams) (*Purchase, error) {
	if params.Amount == 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkMember(ctx, tx, params.UserID); err != nil {
		return nil, err
	}

	product, err := tx.GetProduct(ctx, params.ProductID)
	if err != nil {
		return nil, err
	}

	if !product.Active {
		return nil, shoperr.Field(shoperr.ErrEntryIsInactive, "product")
	}

	p := &Purchase{
		Header:       s.header(admin, params.Comment),
		UserID:       params.UserID,
		ProductID:    params.ProductID,
		Amount:       params.Amount,
		ProductPrice: product.Price,
	}

	if err := s.insert(ctx, tx, p); err != nil {
		return nil, err
	}

	return p, nil
}

type DepositParams struct {
	UserID  int64
	Amount  int64
	Comment string
}

func (s *Service) CreateDeposit(ctx context.Context, admin auth.Admin, params DepositParams) (*Deposit, error) {
	if params.Amount == 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin deposit: %w", err)
	}
	defer tx.Rollback()

	if err := s.checkMember(ctx, tx, params.UserID); err != nil {
		return nil, err
	}

	d := &Deposit{
		Header: s.header(admin, params.Comment),
		UserID: params.UserID,
		Amount: params.Amount,
	}

	if err := s.insert(ctx, tx, d); err != nil {
		return nil, err
	}

	return d, nil
}

type RefundParams struct {
	UserID     int64
	TotalPrice int64
	Comment    string
}

// CreateRefund only requires the user to exist; refunds may go to inactive
// or unverified users.
func (s *Service) CreateRefund(ctx context.Context, admin auth.Admin, params RefundParams) (*Refund, error) {
	if params.TotalPrice == 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin refund: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.GetUser(ctx, params.UserID); err != nil {
		return nil, err
	}

	r := &Refund{
		Header:     s.header(admin, params.Comment),
		UserID:     params.UserID,
		TotalPrice: params.TotalPrice,
	}

	if err := s.insert(ctx, tx, r); err != nil {
		return nil, err
	}

	return r, nil
}

type AmountParams struct {
	Amount  int64
	Comment string
}

func (s *Service) CreatePayoff(ctx context.Context, admin auth.Admin, params AmountParams) (*Payoff, error) {
	if params.Amount == 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payoff: %w", err)
	}
	defer tx.Rollback()

	p := &Payoff{Header: s.header(admin, params.Comment), Amount: params.Amount}

	if err := s.insert(ctx, tx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) CreateTurnover(ctx context.Context, admin auth.Admin, params AmountParams) (*Turnover, error) {
	if params.Amount == 0 {
		return nil, shoperr.ErrInvalidAmount
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin turnover: %w", err)
	}
	defer tx.Rollback()

	t := &Turnover{Header: s.header(admin, params.Comment), Amount: params.Amount}

	if err := s.insert(ctx, tx, t); err != nil {
		return nil, err
	}

	return t, nil
}

type ReplenishmentParams struct {
	ProductID  int64
	Amount     int64
	TotalPrice int64
}

type ReplenishmentCollectionParams struct {
	Replenishments []ReplenishmentParams
	Comment        string
}

// CreateReplenishmentCollection records a batch of restocked products. The
// collection price is derived from the lines. Inactive products referenced by
// a line are reactivated in the same transaction.
func (s *Service) CreateReplenishmentCollection(
	ctx context.Context, admin auth.Admin, params ReplenishmentCollectionParams,
) (*ReplenishmentCollection, error) {
	if len(params.Replenishments) == 0 {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "replenishments")
	}

	c := &ReplenishmentCollection{Header: s.header(admin, params.Comment)}

	for _, r := range params.Replenishments {
		if r.Amount <= 0 {
			return nil, shoperr.Field(shoperr.ErrInvalidAmount, "amount")
		}

		c.Replenishments = append(c.Replenishments, Replenishment{
			ProductID:  r.ProductID,
			Amount:     r.Amount,
			TotalPrice: r.TotalPrice,
		})
	}

	if c.Value() == 0 {
		return nil, shoperr.Field(shoperr.ErrInvalidAmount, "total_price")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replenishment collection: %w", err)
	}
	defer tx.Rollback()

	reactivated := make(map[int64]bool)

	for _, r := range c.Replenishments {
		product, err := tx.GetProduct(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}

		if product.Active || reactivated[product.ID] {
			continue
		}

		if err := tx.ActivateProduct(ctx, product.ID); err != nil {
			return nil, fmt.Errorf("reactivating product %d: %w", product.ID, err)
		}

		reactivated[product.ID] = true
	}

	if err := s.insert(ctx, tx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ToggleRevoke moves an entry to the requested revoked state. Requests that
// would not change anything fail with shoperr.ErrStateUnchanged.
func (s *Service) ToggleRevoke(ctx context.Context, admin auth.Admin, kind Kind, id int64, revoked bool) (*revocation.State, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin revoke: %w", err)
	}
	defer tx.Rollback()

	state, err := revocation.Apply(ctx, tx.Revocations(kind), id, revoked, admin.ID, s.now())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit revoke", "kind", kind, "id", id, "error", err)
		return nil, shoperr.ErrCouldNotUpdateEntry
	}

	slog.InfoContext(ctx, "entry revoke toggled", "kind", kind, "id", id, "revoked", revoked, "admin_id", admin.ID)

	return state, nil
}

func (s *Service) GetEntry(ctx context.Context, kind Kind, id int64) (Entry, error) {
	return s.repo.GetEntry(ctx, kind, id)
}

func (s *Service) ListEntries(ctx context.Context, kind Kind, filter ListFilter) ([]Entry, error) {
	return s.repo.ListEntries(ctx, kind, filter)
}

// UserBalance derives a user's credit from their non-revoked entries.
func (s *Service) UserBalance(ctx context.Context, userID int64) (int64, error) {
	sums, err := s.repo.UserSums(ctx, userID)
	if err != nil {
		return 0, err
	}

	return Credit(sums), nil
}

func (s *Service) header(admin auth.Admin, comment string) Header {
	return Header{Timestamp: s.now(), AdminID: admin.ID, Comment: comment}
}

// checkMember verifies that a user exists and may trade.
func (s *Service) checkMember(ctx context.Context, tx Tx, userID int64) error {
	user, err := tx.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.Verified() {
		return shoperr.ErrUserIsNotVerified
	}

	if !user.Active {
		return shoperr.ErrUserIsInactive
	}

	return nil
}

func (s *Service) insert(ctx context.Context, tx Tx, e Entry) error {
	if err := tx.InsertEntry(ctx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit entry", "kind", e.Kind(), "error", err)
		return shoperr.ErrCouldNotCreateEntry
	}

	slog.InfoContext(ctx, "entry created", "kind", e.Kind(), "id", e.Base().ID, "admin_id", e.Base().AdminID)

	return nil
}
