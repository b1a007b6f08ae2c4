package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dbseed/internal/logging"
	"github.com/vvka-141/dbseed/internal/metrics"
	"github.com/vvka-141/dbseed/pkg/dbseed"

	_ "modernc.org/sqlite"
)

func memoryConfig(sources ...string) dbseed.SeedConfig {
	return dbseed.SeedConfig{
		Sources:    sources,
		Connection: dbseed.ConnectionConfig{Driver: dbseed.DriverMemory},
	}
}

func TestNewSeedService_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewSeedService(nil, logging.NewNullLogger()) })
	assert.Panics(t, func() { NewSeedService(StoreConnectorFactory, nil) })
}

func TestSeed_LoadsInOrder(t *testing.T) {
	conn := newMemoryConnector()
	logger := &recordingLogger{}
	svc := NewSeedService(conn.factory(), logger, WithFileSystem(usersFS()), WithRunID("run-1"))

	summary, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json", "fixtures/f2.yml"))
	require.NoError(t, err)

	rows := conn.mem.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].Data["id"])
	assert.Equal(t, int64(2), rows[1].Data["id"])
	assert.Equal(t, "posts", rows[2].Table)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, dbseed.DriverMemory, summary.Driver)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 3, summary.Fixtures)
	assert.Equal(t, map[string]int{"users": 2, "posts": 1}, summary.Tables)
	assert.Equal(t, []string{"posts", "users"}, summary.TableNames())

	require.Len(t, logger.info, 1)
	assert.Contains(t, logger.info[0], "Seeded 3 fixtures from 2 files into 2 tables")
	assert.Contains(t, logger.verbose, "Reading fixtures/f1.json")
}

func TestSeed_GeneratesRunID(t *testing.T) {
	conn := newMemoryConnector()
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))

	first, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	require.NoError(t, err)
	second, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	require.NoError(t, err)

	assert.Len(t, first.RunID, 36)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSeed_AppliesDefaults(t *testing.T) {
	conn := newMemoryConnector()
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))

	_, err := svc.Seed(context.Background(), dbseed.SeedConfig{
		Sources:    []string{"fixtures/*.json"},
		Connection: dbseed.ConnectionConfig{DSN: "memory://"},
	})
	require.NoError(t, err)
	assert.Equal(t, dbseed.DriverMemory, conn.config.Driver)
}

func TestSeed_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  dbseed.SeedConfig
		want error
	}{
		{"no sources", memoryConfig(), dbseed.ErrInvalidConfig},
		{"no connection", dbseed.SeedConfig{Sources: []string{"a.json"}}, dbseed.ErrInvalidConfig},
		{"unknown scheme", dbseed.SeedConfig{Sources: []string{"a.json"}, Connection: dbseed.ConnectionConfig{DSN: "redis://x"}}, dbseed.ErrInvalidConfig},
		{"negative timeout", dbseed.SeedConfig{Sources: []string{"a.json"}, Connection: dbseed.ConnectionConfig{Driver: dbseed.DriverMemory}, Timeout: -time.Second}, dbseed.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newMemoryConnector()
			svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))

			_, err := svc.Seed(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, conn.connects)
		})
	}
}

func TestSeed_ReadFailureDoesNotConnect(t *testing.T) {
	conn := newMemoryConnector()
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))

	_, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json", "fixtures/missing/*.json"))
	assert.ErrorIs(t, err, dbseed.ErrNotFound)
	assert.Equal(t, dbseed.ExitNotFound, dbseed.ExitCodeForError(err))
	assert.Equal(t, 0, conn.connects)
	assert.Empty(t, conn.mem.Rows())
}

func TestSeed_ScriptBoundedByRunTimeout(t *testing.T) {
	conn := newMemoryConnector()
	fsys := usersFS()
	fsys.AddFile("fixtures/spin.tengo", "for {}\nfixtures := []\n")
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(fsys))

	cfg := memoryConfig("fixtures/spin.tengo")
	cfg.Timeout = 100 * time.Millisecond

	_, err := svc.Seed(context.Background(), cfg)
	require.ErrorIs(t, err, dbseed.ErrParseFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, conn.connects)
}

func TestSeed_ConnectorErrors(t *testing.T) {
	svc := NewSeedService(failingFactory, logging.NewNullLogger(), WithFileSystem(usersFS()))
	_, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	assert.ErrorIs(t, err, errFactory)

	conn := newMemoryConnector()
	conn.connectErr = dbseed.ErrConnectionFailed
	svc = NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))
	_, err = svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	assert.Equal(t, dbseed.ExitConnectionError, dbseed.ExitCodeForError(err))
}

func TestSeed_StorageFailure(t *testing.T) {
	conn := newMemoryConnector()
	backendErr := errors.New(`insert or update on table "posts" violates foreign key constraint`)
	conn.mem.FailOn("posts", backendErr)
	logger := &recordingLogger{}
	svc := NewSeedService(conn.factory(), logger, WithFileSystem(usersFS()))

	summary, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json", "fixtures/f2.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dbseed.ErrStorageFailure)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "fixture 2 (table posts)")
	assert.Equal(t, dbseed.ExitStorageFailure, dbseed.ExitCodeForError(err))

	assert.Equal(t, 2, summary.Fixtures)
	assert.Len(t, conn.mem.Rows(), 2)
	assert.Len(t, logger.errors, 1)
	assert.True(t, conn.mem.Closed())
}

func TestSeed_ClosesConnection(t *testing.T) {
	conn := newMemoryConnector()
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()))

	_, err := svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	require.NoError(t, err)
	assert.True(t, conn.mem.Closed())
}

func TestSeed_RecordsMetrics(t *testing.T) {
	recorder, err := metrics.New()
	require.NoError(t, err)

	conn := newMemoryConnector()
	svc := NewSeedService(conn.factory(), logging.NewNullLogger(), WithFileSystem(usersFS()), WithMetrics(recorder))

	_, err = svc.Seed(context.Background(), memoryConfig("fixtures/f1.json", "fixtures/f2.yml"))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(recorder.Registry(), "dbseed_fixtures_loaded_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per table")

	conn.mem.FailOn("users", errors.New("boom"))
	_, err = svc.Seed(context.Background(), memoryConfig("fixtures/f1.json"))
	require.Error(t, err)

	families, err := recorder.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "dbseed_run_success" {
			assert.Equal(t, 0.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
}

func TestSeed_SQLiteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "seed.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, first TEXT, last TEXT);
CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id), title TEXT);`)
	require.NoError(t, err)

	svc := NewSeedService(StoreConnectorFactory, logging.NewNullLogger(), WithFileSystem(usersFS()))
	summary, err := svc.Seed(context.Background(), dbseed.SeedConfig{
		Sources:    []string{"fixtures/f1.json", "fixtures/f2.yml"},
		Connection: dbseed.ConnectionConfig{DSN: "sqlite://" + dbPath},
	})
	require.NoError(t, err)
	assert.Equal(t, dbseed.DriverSQLite, summary.Driver)

	var users, posts int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&posts))
	assert.Equal(t, 2, users)
	assert.Equal(t, 1, posts)
}
