package store

import (
	"context"
	"maps"
	"sync"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Row is one insert recorded by a Memory store.
type Row struct {
	Table string
	Data  map[string]any
}

// Memory records inserts in order without persisting anything.
// It backs dry runs and is the fake storage connection in tests.
// Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	rows     []Row
	failures map[string]error
	closed   bool
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{failures: make(map[string]error)}
}

// FailOn makes every later insert into table fail with err.
func (m *Memory) FailOn(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[table] = err
}

// Insert records a copy of data, or returns the failure registered for table.
func (m *Memory) Insert(ctx context.Context, table string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[table]; err != nil {
		return err
	}
	m.rows = append(m.rows, Row{Table: table, Data: maps.Clone(data)})
	return nil
}

// Rows returns the recorded inserts in order.
func (m *Memory) Rows() []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Row(nil), m.rows...)
}

// Table returns the rows recorded for table in insertion order.
func (m *Memory) Table(table string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []map[string]any
	for _, r := range m.rows {
		if r.Table == table {
			rows = append(rows, r.Data)
		}
	}
	return rows
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ dbseed.Connection = (*Memory)(nil)
