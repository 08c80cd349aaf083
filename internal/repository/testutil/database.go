// Package testutil gives integration tests a throwaway Postgres schema.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/database"
)

// localDefaults match the docker-compose style Postgres most developers run.
var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
	"POSTGRES_PORT":     "5432",
}

// TestDatabase is a migrated schema private to one test.
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
}

// SetupTestDatabase creates a migrated schema named after a fresh uuid and
// drops it when the test finishes.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return localDefaults[key]
	})
	require.NoError(t, err, "load postgres config")

	admin, err := sql.Open("postgres", pgConfig.ConnectionString())
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })
	require.NoError(t, admin.Ping(), "postgres is not reachable; start it or skip -tags integration")

	schema := "run_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", schema))
	require.NoError(t, err)
	t.Cleanup(func() {
		if _, err := admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
			t.Logf("failed to drop schema %s: %v", schema, err)
		}
	})

	db, err := sql.Open("postgres", fmt.Sprintf("%s search_path=%s", pgConfig.ConnectionString(), schema))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	require.NoError(t, database.Migrate(db), "migrate %s", schema)
	return &TestDatabase{DB: db, SchemaName: schema}
}
