package catalog

import (
	"time"

	"github.com/Tim1593/shop-db2/internal/catalog"
)

type userResponse struct {
	ID         int64      `json:"id"`
	Firstname  string     `json:"firstname"`
	Lastname   string     `json:"lastname"`
	Credit     *int64     `json:"credit,omitempty"`
	RankID     *int64     `json:"rank_id"`
	IsAdmin    bool       `json:"is_admin"`
	Active     bool       `json:"active"`
	Verified   bool       `json:"is_verified"`
	VerifiedBy *int64     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verification_date,omitempty"`
	CreatedAt  time.Time  `json:"creation_date"`
}

type publicUserResponse struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Credit    *int64 `json:"credit,omitempty"`
	RankID    *int64 `json:"rank_id"`
}

func toUserResponse(u *catalog.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Firstname:  u.Firstname,
		Lastname:   u.Lastname,
		RankID:     u.RankID,
		IsAdmin:    u.IsAdmin,
		Active:     u.Active,
		Verified:   u.Verified(),
		VerifiedBy: u.VerifiedBy,
		VerifiedAt: u.VerifiedAt,
		CreatedAt:  u.CreatedAt,
	}
}

func toPublicUserResponse(u *catalog.User) publicUserResponse {
	return publicUserResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		RankID:    u.RankID,
	}
}

type rankResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	DebtLimit int64  `json:"debt_limit"`
	Active    bool   `json:"active"`
}

type productResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Price     int64      `json:"price"`
	Barcode   *string    `json:"barcode"`
	Active    bool       `json:"active"`
	Countable *bool      `json:"countable,omitempty"`
	CreatedBy *int64     `json:"created_by,omitempty"`
	CreatedAt *time.Time `json:"creation_date,omitempty"`
}

func toProductResponse(p *catalog.Product, full bool) productResponse {
	resp := productResponse{
		ID:      p.ID,
		Name:    p.Name,
		Price:   p.Price,
		Barcode: p.Barcode,
		Active:  p.Active,
	}

	if full {
		resp.Countable = new(p.Countable)
		resp.CreatedBy = new(p.CreatedBy)
		resp.CreatedAt = new(p.CreatedAt)
	}

	return resp
}

type priceResponse struct {
	Price     int64     `json:"price"`
	AdminID   int64     `json:"admin_id"`
	Timestamp time.Time `json:"timestamp"`
}

type tagResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"creation_date"`
}

func toTagResponse(t *catalog.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
}

func toTagResponses(tags []*catalog.Tag) []tagResponse {
	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, toTagResponse(t))
	}

	return resp
}
