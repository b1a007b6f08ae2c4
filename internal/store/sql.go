package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/lib/pq"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Dialect captures the SQL differences between database/sql drivers.
type Dialect struct {
	// Name is the database/sql driver name passed to sql.Open.
	Name string

	// Placeholder returns the bind parameter for the 1-based position n.
	Placeholder func(n int) string

	// QuoteIdentifier quotes a single identifier part.
	QuoteIdentifier func(name string) string

	// EmptyRow is the INSERT suffix for a row without columns.
	EmptyRow string
}

var (
	// DialectPostgres targets PostgreSQL through lib/pq.
	DialectPostgres = Dialect{
		Name:            "postgres",
		Placeholder:     func(n int) string { return fmt.Sprintf("$%d", n) },
		QuoteIdentifier: pq.QuoteIdentifier,
		EmptyRow:        "DEFAULT VALUES",
	}

	// DialectMySQL targets MySQL and MariaDB through go-sql-driver/mysql.
	DialectMySQL = Dialect{
		Name:            "mysql",
		Placeholder:     func(int) string { return "?" },
		QuoteIdentifier: func(name string) string { return "`" + strings.ReplaceAll(name, "`", "``") + "`" },
		EmptyRow:        "() VALUES ()",
	}

	// DialectSQLite targets SQLite through modernc.org/sqlite.
	DialectSQLite = Dialect{
		Name:            "sqlite",
		Placeholder:     func(int) string { return "?" },
		QuoteIdentifier: func(name string) string { return `"` + strings.ReplaceAll(name, `"`, `""`) + `"` },
		EmptyRow:        "DEFAULT VALUES",
	}
)

// DialectFor returns the dialect of a database/sql driver.
func DialectFor(driver dbseed.Driver) (Dialect, error) {
	switch driver {
	case dbseed.DriverPQ, dbseed.DriverPostgres:
		return DialectPostgres, nil
	case dbseed.DriverMySQL:
		return DialectMySQL, nil
	case dbseed.DriverSQLite:
		return DialectSQLite, nil
	}
	return Dialect{}, fmt.Errorf("%w: no SQL dialect for driver %q", dbseed.ErrInvalidConfig, driver)
}

// Querier is the part of database/sql shared by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQL inserts fixtures through database/sql.
type SQL struct {
	db      Querier
	dialect Dialect
}

// NewSQL creates a SQL store.
// Panics if db is nil.
func NewSQL(db Querier, dialect Dialect) *SQL {
	if db == nil {
		panic("db cannot be nil")
	}
	return &SQL{db: db, dialect: dialect}
}

// Insert runs one INSERT statement. Driver errors are returned unchanged.
func (s *SQL) Insert(ctx context.Context, table string, data map[string]any) error {
	query, args, err := s.dialect.BuildInsert(table, data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// BuildInsert returns a parameterized INSERT for table with sorted columns.
// Lists and mappings are bound as JSON text.
func (d Dialect) BuildInsert(table string, data map[string]any) (string, []any, error) {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = d.QuoteIdentifier(part)
	}
	target := strings.Join(parts, ".")

	if len(data) == 0 {
		return fmt.Sprintf("INSERT INTO %s %s", target, d.EmptyRow), nil, nil
	}

	columns := sortedColumns(data)
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		quoted[i] = d.QuoteIdentifier(col)
		placeholders[i] = d.Placeholder(i + 1)

		arg, err := bindValue(data[col])
		if err != nil {
			return "", nil, fmt.Errorf("column %s: %w", col, err)
		}
		args[i] = arg
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(quoted, ", "), strings.Join(placeholders, ", ")), args, nil
}

// bindValue converts composite values, which database/sql drivers cannot bind, to JSON text.
func bindValue(v any) (any, error) {
	switch v.(type) {
	case []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

var _ dbseed.Store = (*SQL)(nil)
