package catalog

import "time"

// Rank classifies users. DebtLimit is the lowest credit a member of the rank may
// reach; it is enforced at the account boundary, not by the ledger.
type Rank struct {
	ID        int64
	Name      string
	DebtLimit int64
	Active    bool
}

type User struct {
	ID           int64
	Firstname    string
	Lastname     string
	PasswordHash []byte
	IsAdmin      bool
	Active       bool
	RankID       *int64
	VerifiedBy   *int64
	VerifiedAt   *time.Time
	CreatedAt    time.Time
}

func (u *User) Verified() bool {
	return u.VerifiedAt != nil
}

// Product carries the current price, projected from the latest Price row.
type Product struct {
	ID        int64
	Name      string
	Barcode   *string
	Active    bool
	Countable bool
	Price     int64
	CreatedBy int64
	CreatedAt time.Time
}

// Price is one append-only entry of a product's price history.
type Price struct {
	ProductID int64
	Price     int64
	AdminID   int64
	Timestamp time.Time
}

// Tag groups products, e.g. for the shop frontend's categories.
type Tag struct {
	ID        int64
	Name      string
	CreatedBy int64
	CreatedAt time.Time
}
