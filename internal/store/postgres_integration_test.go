package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/internal/logging"
	"github.com/vvka-141/dbseed/internal/store"
	dbtest "github.com/vvka-141/dbseed/internal/testing"
	"github.com/vvka-141/dbseed/pkg/dbseed"
	"github.com/vvka-141/dbseed/pkg/seed"
)

const usersSchema = `
CREATE SCHEMA app;
CREATE TABLE app.users (id int PRIMARY KEY, first text NOT NULL, last text NOT NULL, tags jsonb);
CREATE TABLE app.posts (id int PRIMARY KEY, user_id int NOT NULL REFERENCES app.users(id), title text);
`

func fixturesFS() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem("/seed")
	mfs.AddFile("01_users.json", `[
  {"table": "app.users", "data": {"id": 1, "first": "john", "last": "doe", "tags": ["admin"]}},
  {"table": "app.users", "data": {"id": 2, "first": "jane", "last": "smith"}}
]`)
	mfs.AddFile("02_posts.yml", `fixtures:
  - table: app.posts
    data: {id: 10, user_id: 2, title: hello}
`)
	return mfs
}

func connectTestDB(t *testing.T, driver dbseed.Driver) (dbseed.Connection, string) {
	t.Helper()

	server := dbtest.RequireDatabase(t)
	connStr := dbtest.CreateTestDB(t, server)
	dbtest.ExecSQL(t, connStr, usersSchema)

	connector, err := store.NewConnector(dbseed.ConnectionConfig{Driver: driver, DSN: connStr}, logging.NewNullLogger())
	require.NoError(t, err)

	conn, err := connector.Connect(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, connStr
}

func TestPostgresDrivers_SeedFixtures(t *testing.T) {
	for _, driver := range []dbseed.Driver{dbseed.DriverPostgres, dbseed.DriverPQ} {
		t.Run(string(driver), func(t *testing.T) {
			ctx := context.Background()
			conn, connStr := connectTestDB(t, driver)

			err := seed.LoadFile(ctx, "*", conn, seed.WithFileSystem(fixturesFS()))
			require.NoError(t, err)

			check, err := pgx.Connect(ctx, connStr)
			require.NoError(t, err)
			defer check.Close(ctx)

			rows, err := check.Query(ctx, `SELECT id, first, coalesce(tags::text, '') FROM app.users ORDER BY id`)
			require.NoError(t, err)
			type user struct {
				id    int32
				first string
				tags  string
			}
			users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (user, error) {
				var u user
				err := row.Scan(&u.id, &u.first, &u.tags)
				return u, err
			})
			require.NoError(t, err)
			assert.Equal(t, []user{{1, "john", `["admin"]`}, {2, "jane", ""}}, users)

			var title string
			require.NoError(t, check.QueryRow(ctx, `SELECT title FROM app.posts WHERE user_id = 2`).Scan(&title))
			assert.Equal(t, "hello", title)
		})
	}
}

func TestPostgres_ForeignKeyViolationReturnedVerbatim(t *testing.T) {
	ctx := context.Background()
	conn, _ := connectTestDB(t, dbseed.DriverPostgres)

	err := seed.LoadFixtures(ctx, []dbseed.Fixture{
		{Table: "app.posts", Data: map[string]any{"id": int64(1), "user_id": int64(99)}},
		{Table: "app.users", Data: map[string]any{"id": int64(99), "first": "late", "last": "user"}},
	}, conn)
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "expected *pgconn.PgError, got %T", err)
	assert.Equal(t, "23503", pgErr.Code)
}
