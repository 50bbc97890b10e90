// Package databasetest opens throwaway Postgres schemas for integration tests.
package databasetest

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/require"

	"github.com/Tim1593/shop-db2/internal/config"
	"github.com/Tim1593/shop-db2/internal/database"
)

// Open connects to the database described by the DB_* environment, creates a
// fresh schema for t and migrates it. The schema is dropped when t ends. t is
// skipped when DB_HOST is unset.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping database test")
	}

	var cfg config.Config
	require.NoError(t, envconfig.Process("", &cfg.DB))

	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := database.New(cfg.ConnectionString())
	require.NoError(t, err)

	_, err = admin.ExecContext(ctx, `CREATE SCHEMA `+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = admin.ExecContext(ctx, `DROP SCHEMA `+schema+` CASCADE`)
		_ = admin.Close()
	})

	db, err := database.New(cfg.ConnectionString() + "&search_path=" + schema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	return db
}
