package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/internal/fixtures/loader"
	"github.com/vvka-141/dbseed/internal/fixtures/reader"
	"github.com/vvka-141/dbseed/internal/metrics"
	"github.com/vvka-141/dbseed/internal/store"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// ConnectorFactory builds a connector for a resolved connection config.
type ConnectorFactory func(dbseed.ConnectionConfig, dbseed.Logger) (dbseed.Connector, error)

// StoreConnectorFactory is the production ConnectorFactory.
func StoreConnectorFactory(cfg dbseed.ConnectionConfig, logger dbseed.Logger) (dbseed.Connector, error) {
	connector, err := store.NewConnector(cfg, logger)
	if err != nil {
		return nil, err
	}
	return connector, nil
}

// Summary describes a finished seeding run.
type Summary struct {
	RunID    string
	Driver   dbseed.Driver
	Files    int
	Fixtures int
	// Tables counts inserted fixtures per table.
	Tables   map[string]int
	Duration time.Duration
}

// TableNames returns the tables that received rows, sorted.
func (s *Summary) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeedService reads fixture files and loads them into a storage backend.
// Thread-Safety: NOT safe for concurrent Seed() calls on the same instance.
type SeedService struct {
	connectorFactory ConnectorFactory
	logger           dbseed.Logger
	fsProvider       filesystem.FileSystemProvider
	recorder         *metrics.Recorder
	runID            string
	now              func() time.Time
}

// Option configures a SeedService.
type Option func(*SeedService)

// WithFileSystem reads fixture files through fsProvider instead of the OS filesystem.
func WithFileSystem(fsProvider filesystem.FileSystemProvider) Option {
	return func(s *SeedService) {
		s.fsProvider = fsProvider
	}
}

// WithMetrics feeds the recorder from every read and insert.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *SeedService) {
		s.recorder = recorder
	}
}

// WithRunID fixes the run identifier instead of generating one per run.
func WithRunID(runID string) Option {
	return func(s *SeedService) {
		s.runID = runID
	}
}

// NewSeedService creates a SeedService. Panics on nil dependencies.
func NewSeedService(connectorFactory ConnectorFactory, logger dbseed.Logger, opts ...Option) *SeedService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	s := &SeedService{
		connectorFactory: connectorFactory,
		logger:           logger,
		fsProvider:       filesystem.NewOSFileSystem(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed reads every source and inserts the fixtures in order.
// Nothing is inserted when a source fails to read. Insert failures are
// marked with dbseed.ErrStorageFailure and keep the backend error in the chain.
func (s *SeedService) Seed(ctx context.Context, cfg dbseed.SeedConfig) (summary *Summary, err error) {
	start := s.now()
	summary = &Summary{RunID: s.runID, Tables: make(map[string]int)}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}

	if s.recorder != nil {
		defer func() {
			finished := s.now()
			s.recorder.ObserveRun(finished.Sub(start), err, finished)
		}()
	}

	cfg, err = s.prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	summary.Driver = cfg.Connection.Driver

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	s.logger.Verbose("Run %s: %d source(s), driver %s, encoding %s", summary.RunID, len(cfg.Sources), cfg.Connection.Driver, cfg.Encoding)

	tally := &runTally{summary: summary}
	observer := s.observer(tally)

	fixtures, err := s.readSources(cfg, observer)
	if err != nil {
		return nil, err
	}

	connector, err := s.connectorFactory(cfg.Connection, s.logger)
	if err != nil {
		return nil, err
	}
	conn, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Error("Failed to close %s connection: %v", cfg.Connection.Driver, closeErr)
		}
	}()

	l, err := loader.New(conn, loader.WithObserver(observer))
	if err != nil {
		return nil, err
	}
	if err := l.LoadFixtures(ctx, fixtures); err != nil {
		failed := fixtures[summary.Fixtures]
		s.logger.Error("Insert into %s failed after %d of %d fixtures", failed.Table, summary.Fixtures, len(fixtures))
		return summary, fmt.Errorf("%w: fixture %d (table %s): %w", dbseed.ErrStorageFailure, summary.Fixtures, failed.Table, err)
	}

	summary.Duration = s.now().Sub(start)
	s.logger.Info("✓ Seeded %d fixtures from %d files into %d tables in %s",
		summary.Fixtures, summary.Files, len(summary.Tables), summary.Duration.Round(time.Millisecond))
	for _, table := range summary.TableNames() {
		s.logger.Verbose("  %s: %d", table, summary.Tables[table])
	}
	return summary, nil
}

// prepareConfig resolves the connection, applies defaults and validates.
func (s *SeedService) prepareConfig(cfg dbseed.SeedConfig) (dbseed.SeedConfig, error) {
	resolved, err := store.ResolveConnection(cfg.Connection)
	if err != nil {
		return cfg, err
	}
	cfg.Connection = resolved

	if cfg.Encoding == "" {
		cfg.Encoding = dbseed.DefaultEncoding
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = dbseed.DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s *SeedService) observer(extra ...dbseed.Observer) dbseed.Observer {
	observers := dbseed.Observers{&fileLogger{logger: s.logger}}
	if s.recorder != nil {
		observers = append(observers, s.recorder)
	}
	return append(observers, extra...)
}

// readSources bounds every fixture script by the run timeout as well.
func (s *SeedService) readSources(cfg dbseed.SeedConfig, observer dbseed.Observer) ([]dbseed.Fixture, error) {
	r, err := reader.New(
		reader.WithEncoding(cfg.Encoding),
		reader.WithFileSystem(s.fsProvider),
		reader.WithObserver(observer),
		reader.WithFormat(".tengo", reader.NewScriptFormat(cfg.Timeout)),
	)
	if err != nil {
		return nil, err
	}
	return r.ReadFiles(cfg.Sources)
}

// runTally counts files and inserted fixtures into a Summary.
type runTally struct {
	dbseed.NopObserver
	summary *Summary
}

func (t *runTally) FileRead(string, int) {
	t.summary.Files++
}

func (t *runTally) FixtureLoaded(_ int, fixture dbseed.Fixture) {
	t.summary.Fixtures++
	t.summary.Tables[fixture.Table]++
}

// fileLogger reports file progress in verbose mode.
type fileLogger struct {
	dbseed.NopObserver
	logger dbseed.Logger
}

func (f *fileLogger) FileReading(filename string) {
	f.logger.Verbose("Reading %s", filename)
}

func (f *fileLogger) FileRead(filename string, count int) {
	f.logger.Verbose("Read %d fixtures from %s", count, filename)
}
