package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/auth/denylist"
	"github.com/Tim1593/shop-db2/internal/catalog"
	catalogStore "github.com/Tim1593/shop-db2/internal/catalog/store"
	"github.com/Tim1593/shop-db2/internal/config"
	"github.com/Tim1593/shop-db2/internal/database"
	"github.com/Tim1593/shop-db2/internal/export"
	shopHttp "github.com/Tim1593/shop-db2/internal/http"
	catalogHandler "github.com/Tim1593/shop-db2/internal/http/catalog"
	exportHandler "github.com/Tim1593/shop-db2/internal/http/export"
	importHandler "github.com/Tim1593/shop-db2/internal/http/importcsv"
	ledgerHandler "github.com/Tim1593/shop-db2/internal/http/ledger"
	maintenanceHandler "github.com/Tim1593/shop-db2/internal/http/maintenance"
	overviewHandler "github.com/Tim1593/shop-db2/internal/http/overview"
	sessionHandler "github.com/Tim1593/shop-db2/internal/http/session"
	stocktakingHandler "github.com/Tim1593/shop-db2/internal/http/stocktaking"
	"github.com/Tim1593/shop-db2/internal/importer"
	"github.com/Tim1593/shop-db2/internal/ledger"
	ledgerStore "github.com/Tim1593/shop-db2/internal/ledger/store"
	"github.com/Tim1593/shop-db2/internal/maintenance"
	"github.com/Tim1593/shop-db2/internal/overview"
	overviewStore "github.com/Tim1593/shop-db2/internal/overview/store"
	"github.com/Tim1593/shop-db2/internal/stocktaking"
	stocktakingStore "github.com/Tim1593/shop-db2/internal/stocktaking/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logout only takes effect with a denylist; without Redis tokens stay valid
	// until they expire.
	var tokenDenylist auth.Denylist

	if cfg.Redis.Addr != "" {
		client, err := denylist.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		tokenDenylist = denylist.New(client)
	} else {
		slog.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	var (
		catalogRepo = catalogStore.New(db)
		tokens      = auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenValidity)
		gate        = auth.NewGate(tokens, catalogRepo, tokenDenylist)
		mode        = maintenance.New(cfg.Maintenance)
	)

	var (
		authService        = auth.NewService(catalogRepo, tokens, tokenDenylist)
		catalogService     = catalog.NewService(catalogRepo, cfg.Auth.MinimumPasswordLength)
		ledgerService      = ledger.NewService(ledgerStore.New(db))
		stocktakingService = stocktaking.NewService(stocktakingStore.New(db))
		overviewService    = overview.NewService(overviewStore.New(db))
		importService      = importer.NewService()
		exportService      = export.NewService(ledgerService, overviewService)
	)

	router := shopHttp.New(shopHttp.Handlers{
		Session:     sessionHandler.NewHandler(authService),
		Maintenance: maintenanceHandler.NewHandler(mode, gate),
		Catalog:     catalogHandler.NewHandler(catalogService, ledgerService),
		Ledger:      ledgerHandler.NewHandler(ledgerService),
		Stocktaking: stocktakingHandler.NewHandler(stocktakingService),
		Overview:    overviewHandler.NewHandler(overviewService),
		Import:      importHandler.NewHandler(importService),
		Export:      exportHandler.NewHandler(exportService),
	}, gate, mode, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "maintenance", mode.Enabled())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
