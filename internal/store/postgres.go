package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Execer is the part of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres inserts fixtures through pgx. Passing a pgx.Tx makes all inserts
// part of the caller's transaction.
type Postgres struct {
	db Execer
}

// NewPostgres creates a Postgres store.
// Panics if db is nil.
func NewPostgres(db Execer) *Postgres {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Postgres{db: db}
}

// Insert runs one INSERT statement. pgx errors are returned unchanged.
func (s *Postgres) Insert(ctx context.Context, table string, data map[string]any) error {
	query, args := BuildPostgresInsert(table, data)
	_, err := s.db.Exec(ctx, query, args...)
	return err
}

// BuildPostgresInsert returns a parameterized INSERT for table with columns
// in sorted order. Schema-qualified names ("audit.events") are quoted per part.
func BuildPostgresInsert(table string, data map[string]any) (string, []any) {
	target := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	if len(data) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", target), nil
	}

	columns := sortedColumns(data)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = data[col]
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(quoted, ", "), strings.Join(placeholders, ", ")), args
}

func sortedColumns(data map[string]any) []string {
	columns := make([]string, 0, len(data))
	for col := range data {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

var _ dbseed.Store = (*Postgres)(nil)
