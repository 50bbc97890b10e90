package stocktaking

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

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=stocktaking
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	GetCollection(ctx context.Context, id int64) (*Collection, error)
	ListCollections(ctx context.Context) ([]*Collection, error)
	// Window loads both collections and the ledger movements between them
	// inside one read-only snapshot.
	Window(ctx context.Context, startID, endID int64) (*Window, error)
}

type Tx interface {
	CountableProductIDs(ctx context.Context) ([]int64, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	DeactivateProduct(ctx context.Context, id int64) error
	InsertCollection(ctx context.Context, c *Collection) error
	Revocations() revocation.Store
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type ItemParams struct {
	ProductID int64
	Count     int64
	// KeepActive stops a product counted at zero from being deactivated.
	KeepActive bool
}

// CreateParams carries no timestamp. A collection is always stamped with the
// current time so a backdated count cannot pull earlier purchases and
// replenishments into another reconciliation window.
type CreateParams struct {
	Items []ItemParams
}

// Create records a count of every active countable product. Products counted
// at zero are deactivated unless the item asks to keep them.
func (s *Service) Create(ctx context.Context, admin auth.Admin, params CreateParams) (*Collection, error) {
	if len(params.Items) == 0 {
		return nil, shoperr.Field(shoperr.ErrDataMissing, "items")
	}

	c := &Collection{Timestamp: s.now(), AdminID: admin.ID}

	counted := make(map[int64]bool, len(params.Items))

	for _, it := range params.Items {
		if it.Count < 0 {
			return nil, shoperr.Field(shoperr.ErrInvalidAmount, "count")
		}

		if counted[it.ProductID] {
			return nil, shoperr.Field(shoperr.ErrInvalidData, "product_id")
		}

		counted[it.ProductID] = true
		c.Items = append(c.Items, Item{ProductID: it.ProductID, Count: it.Count})
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin stocktaking: %w", err)
	}
	defer tx.Rollback()

	required, err := tx.CountableProductIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range required {
		if !counted[id] {
			return nil, shoperr.Field(shoperr.ErrDataMissing, fmt.Sprintf("product %d", id))
		}
	}

	for _, it := range params.Items {
		product, err := tx.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}

		if !product.Active {
			return nil, shoperr.Field(shoperr.ErrEntryIsInactive, "product")
		}

		if !product.Countable {
			return nil, shoperr.Field(shoperr.ErrInvalidData, "product")
		}
	}

	if err := tx.InsertCollection(ctx, c); err != nil {
		return nil, err
	}

	for _, it := range params.Items {
		if it.Count != 0 || it.KeepActive {
			continue
		}

		if err := tx.DeactivateProduct(ctx, it.ProductID); err != nil {
			return nil, fmt.Errorf("deactivating product %d: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit stocktaking", "error", err)
		return nil, shoperr.ErrCouldNotCreateEntry
	}

	slog.InfoContext(ctx, "stocktaking created", "id", c.ID, "items", len(c.Items), "admin_id", admin.ID)

	return c, nil
}

func (s *Service) ToggleRevoke(ctx context.Context, admin auth.Admin, id int64, revoked bool) (*revocation.State, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin revoke: %w", err)
	}
	defer tx.Rollback()

	state, err := revocation.Apply(ctx, tx.Revocations(), id, revoked, admin.ID, s.now())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit revoke", "kind", RevocationKind, "id", id, "error", err)
		return nil, shoperr.ErrCouldNotUpdateEntry
	}

	slog.InfoContext(ctx, "stocktaking revoke toggled", "id", id, "revoked", revoked, "admin_id", admin.ID)

	return state, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Collection, error) {
	return s.repo.ListCollections(ctx)
}

// Balance reconciles the collections startID and endID. The start must not be
// later than the end; revoked collections cannot bound a balance.
func (s *Service) Balance(ctx context.Context, startID, endID int64) (*Balance, error) {
	if startID == endID {
		if _, err := s.repo.GetCollection(ctx, startID); err != nil {
			return nil, err
		}

		return &Balance{}, nil
	}

	w, err := s.repo.Window(ctx, startID, endID)
	if err != nil {
		return nil, err
	}

	if w.Start.Revoked || w.End.Revoked {
		return nil, shoperr.Field(shoperr.ErrEntryIsInactive, "stocktakingcollection")
	}

	if w.Start.Timestamp.After(w.End.Timestamp) || (w.Start.Timestamp.Equal(w.End.Timestamp) && startID > endID) {
		return nil, shoperr.Field(shoperr.ErrInvalidData, "start_id")
	}

	b := Reconcile(*w)

	return &b, nil
}
