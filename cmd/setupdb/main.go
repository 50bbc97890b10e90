// Command setupdb applies the schema, seeds the default ranks and creates the
// first administrator. Running it again is harmless.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/catalog"
	catalogStore "github.com/Tim1593/shop-db2/internal/catalog/store"
	"github.com/Tim1593/shop-db2/internal/config"
	"github.com/Tim1593/shop-db2/internal/database"
)

var defaultRanks = []catalog.Rank{
	{Name: "Member", DebtLimit: -2000, Active: true},
	{Name: "Alumni", DebtLimit: -2000, Active: true},
	{Name: "Contender", DebtLimit: 0, Active: true},
	{Name: "Inactive", DebtLimit: 0, Active: false},
}

func main() {
	var (
		firstname = flag.String("firstname", "", "first name of the administrator")
		lastname  = flag.String("lastname", "", "last name of the administrator")
		password  = flag.String("password", "", "password of the administrator")
	)

	flag.Parse()

	if err := run(*firstname, *lastname, *password); err != nil {
		slog.Error("setup failed", "error", err)
		os.Exit(1)
	}
}

func run(firstname, lastname, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	slog.Info("schema applied")

	store := catalogStore.New(db)

	var member *catalog.Rank

	for i := range defaultRanks {
		rank := defaultRanks[i]
		if err := store.CreateRank(ctx, &rank); err != nil {
			return err
		}

		if member == nil {
			member = &rank
		}
	}

	slog.Info("ranks seeded", "count", len(defaultRanks))

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.IsAdmin {
			slog.Info("administrator already exists", "user_id", u.ID)
			return nil
		}
	}

	if lastname == "" || len(password) < cfg.Auth.MinimumPasswordLength {
		return fmt.Errorf("-lastname and a -password of at least %d characters are required", cfg.Auth.MinimumPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &catalog.User{
		Firstname:    firstname,
		Lastname:     lastname,
		PasswordHash: hash,
		IsAdmin:      true,
		Active:       true,
	}

	if err := store.CreateUser(ctx, admin); err != nil {
		return err
	}

	if err := store.VerifyUser(ctx, admin.ID, member.ID, admin.ID, time.Now()); err != nil {
		return err
	}

	slog.Info("administrator created", "user_id", admin.ID)

	return nil
}
