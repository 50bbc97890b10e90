package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/http/catalog"
	"github.com/Tim1593/shop-db2/internal/http/export"
	"github.com/Tim1593/shop-db2/internal/http/guard"
	"github.com/Tim1593/shop-db2/internal/http/importcsv"
	"github.com/Tim1593/shop-db2/internal/http/ledger"
	maintenanceHandler "github.com/Tim1593/shop-db2/internal/http/maintenance"
	"github.com/Tim1593/shop-db2/internal/http/overview"
	"github.com/Tim1593/shop-db2/internal/http/session"
	"github.com/Tim1593/shop-db2/internal/http/stocktaking"
	"github.com/Tim1593/shop-db2/internal/maintenance"
)

type Handlers struct {
	Session     *session.Handler
	Maintenance *maintenanceHandler.Handler
	Catalog     *catalog.Handler
	Ledger      *ledger.Handler
	Stocktaking *stocktaking.Handler
	Overview    *overview.Handler
	Import      *importcsv.Handler
	Export      *export.Handler
}

func New(h Handlers, authorizer auth.Authorizer, mode *maintenance.Mode, corsOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "token"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(guard.Maintenance(mode, "/api/v1/login", "/api/v1/maintenance"))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			h.Session.Routes(r)
			r.Route("/maintenance", h.Maintenance.Routes)

			r.Group(func(r chi.Router) {
				r.Use(guard.OptionalAdmin(authorizer))
				h.Catalog.PublicRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAdmin(authorizer))

				h.Catalog.AdminRoutes(r)
				h.Ledger.Routes(r)
				r.Route("/stocktakingcollections", h.Stocktaking.Routes)
				r.Route("/financial_overview", h.Overview.Routes)
				r.Route("/export", h.Export.Routes)
			})
		})

		r.With(guard.RequireAdmin(authorizer)).Route("/import", h.Import.Routes)
	})

	return router
}
