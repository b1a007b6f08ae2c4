package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/internal/store"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// recordingLogger keeps every line for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	verbose []string
	info    []string
	errors  []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// memoryConnector hands out one shared Memory store.
type memoryConnector struct {
	mem        *store.Memory
	connectErr error
	connects   int
	config     dbseed.ConnectionConfig
}

func (c *memoryConnector) Connect(ctx context.Context) (dbseed.Connection, error) {
	c.connects++
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	return c.mem, nil
}

func (c *memoryConnector) factory() ConnectorFactory {
	return func(cfg dbseed.ConnectionConfig, _ dbseed.Logger) (dbseed.Connector, error) {
		c.config = cfg
		return c, nil
	}
}

func newMemoryConnector() *memoryConnector {
	return &memoryConnector{mem: store.NewMemory()}
}

var errFactory = errors.New("factory failed")

func failingFactory(dbseed.ConnectionConfig, dbseed.Logger) (dbseed.Connector, error) {
	return nil, errFactory
}

func usersFS() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem("/project")
	mfs.AddFile("fixtures/f1.json", `[{"table":"users","data":{"id":1,"first":"john","last":"doe"}}]`)
	mfs.AddFile("fixtures/f2.yml", `fixtures:
  - table: users
    data: {id: 2, first: jane, last: smith}
  - table: posts
    data: {id: 10, user_id: 2, title: hello}
`)
	return mfs
}
