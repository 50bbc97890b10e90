package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Tim1593/shop-db2/internal/catalog"
	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Balances derives a user's credit from the ledger.
type Balances interface {
	UserBalance(ctx context.Context, userID int64) (int64, error)
}

type Handler struct {
	svc      *catalog.Service
	balances Balances
}

func NewHandler(svc *catalog.Service, balances Balances) *Handler {
	return &Handler{svc: svc, balances: balances}
}

// PublicRoutes are readable by anyone. Administrators get the full records.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Get("/users", h.listUsers)
	r.Get("/users/{id}", h.getUser)
	r.Get("/ranks", h.listRanks)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/products/{id}/tags", h.productTags)
	r.Get("/tags", h.listTags)
}

func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/verify/{id}", h.verify)
	r.Post("/products", h.createProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Get("/products/{id}/pricehistory", h.priceHistory)
	r.Post("/tags", h.createTag)
	r.Post("/tagassignment/add", h.assignTag)
	r.Post("/tagassignment/remove", h.unassignTag)
}

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname" validate:"required"`
	Password  string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, err := h.svc.Register(r.Context(), catalog.RegisterParams{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
	}); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusCreated, "Created user.")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, ok := guard.Admin(r.Context()); ok {
		resp := make([]userResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResponse(u))
		}

		respond.JSON(w, http.StatusOK, resp)

		return
	}

	resp := make([]publicUserResponse, 0, len(users))

	for _, u := range users {
		if u.Active && u.Verified() {
			resp = append(resp, toPublicUserResponse(u))
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	credit, err := h.balances.UserBalance(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, ok := guard.Admin(r.Context()); ok {
		resp := toUserResponse(u)
		resp.Credit = &credit
		respond.JSON(w, http.StatusOK, resp)

		return
	}

	if !u.Active || !u.Verified() {
		respond.Error(w, r, shoperr.ErrEntryNotFound)
		return
	}

	resp := toPublicUserResponse(u)
	resp.Credit = &credit
	respond.JSON(w, http.StatusOK, resp)
}

type verifyRequest struct {
	RankID int64 `json:"rank_id" validate:"required"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req verifyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, err := h.svc.VerifyUser(r.Context(), admin, id, req.RankID); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusCreated, "Verified user.")
}

func (h *Handler) listRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.svc.ListRanks(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]rankResponse, 0, len(ranks))
	for _, rank := range ranks {
		resp = append(resp, rankResponse{ID: rank.ID, Name: rank.Name, DebtLimit: rank.DebtLimit, Active: rank.Active})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	_, isAdmin := guard.Admin(r.Context())

	resp := make([]productResponse, 0, len(products))

	for _, p := range products {
		if !isAdmin && !p.Active {
			continue
		}

		resp = append(resp, toProductResponse(p, isAdmin))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	_, isAdmin := guard.Admin(r.Context())
	if !isAdmin && !p.Active {
		respond.Error(w, r, shoperr.ErrEntryNotFound)
		return
	}

	respond.JSON(w, http.StatusOK, toProductResponse(p, isAdmin))
}

type createProductRequest struct {
	Name      string  `json:"name" validate:"required"`
	Price     *int64  `json:"price" validate:"required"`
	Barcode   *string `json:"barcode"`
	Countable *bool   `json:"countable"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req createProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	countable := true
	if req.Countable != nil {
		countable = *req.Countable
	}

	p, err := h.svc.CreateProduct(r.Context(), admin, catalog.CreateProductParams{
		Name:      req.Name,
		Price:     *req.Price,
		Barcode:   req.Barcode,
		Countable: countable,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toProductResponse(p, true))
}

type updateProductRequest struct {
	Name      *string `json:"name,omitempty"`
	Price     *int64  `json:"price,omitempty"`
	Barcode   *string `json:"barcode,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	Countable *bool   `json:"countable,omitempty"`
}

type updatedResponse struct {
	Message string   `json:"message"`
	Updated []string `json:"updated"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateProductRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	updated, err := h.svc.UpdateProduct(r.Context(), admin, id, catalog.ProductUpdate{
		Name:      req.Name,
		Price:     req.Price,
		Barcode:   req.Barcode,
		Active:    req.Active,
		Countable: req.Countable,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, updatedResponse{Message: "Updated product.", Updated: updated})
}

func (h *Handler) priceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	prices, err := h.svc.PriceHistory(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]priceResponse, 0, len(prices))
	for _, p := range prices {
		resp = append(resp, priceResponse{Price: p.Price, AdminID: p.AdminID, Timestamp: p.Timestamp})
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTagResponses(tags))
}

func (h *Handler) productTags(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if _, isAdmin := guard.Admin(r.Context()); !isAdmin && !p.Active {
		respond.Error(w, r, shoperr.ErrEntryNotFound)
		return
	}

	tags, err := h.svc.ProductTags(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTagResponses(tags))
}

type createTagRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req createTagRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.CreateTag(r.Context(), admin, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTagResponse(t))
}

type tagAssignmentRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	TagID     int64 `json:"tag_id" validate:"required"`
}

func (h *Handler) assignTag(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req tagAssignmentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.AssignTag(r.Context(), admin, req.ProductID, req.TagID); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusCreated, "Tag assignment has been created.")
}

func (h *Handler) unassignTag(w http.ResponseWriter, r *http.Request) {
	admin, _ := guard.Admin(r.Context())

	var req tagAssignmentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.UnassignTag(r.Context(), admin, req.ProductID, req.TagID); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusCreated, "Tag assignment has been removed.")
}
