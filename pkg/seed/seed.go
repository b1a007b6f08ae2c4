// Package seed is the programmatic entry point for loading fixtures.
//
// It composes the fixture reader and loader:
//
//	store := dbseed.StoreFunc(func(ctx context.Context, table string, data map[string]any) error {
//		return insertRow(ctx, db, table, data)
//	})
//	err := seed.LoadFiles(ctx, []string{"fixtures/users.json", "fixtures/posts/*.yml"}, store)
//
// Any value implementing dbseed.Store can be passed.
// Storage errors are returned exactly as the store reported them.
package seed

import (
	"context"
	"fmt"

	"github.com/vvka-141/dbseed/internal/files/filesystem"
	"github.com/vvka-141/dbseed/internal/fixtures/loader"
	"github.com/vvka-141/dbseed/internal/fixtures/reader"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

var errInsufficientArguments = fmt.Errorf("%w: insufficient arguments provided", dbseed.ErrInvalidArgument)

type options struct {
	encoding   string
	fsProvider filesystem.FileSystemProvider
	observer   dbseed.Observer
}

// Option configures a load call.
type Option func(*options)

// WithEncoding sets the text encoding of fixture files. Defaults to UTF-8.
func WithEncoding(label string) Option {
	return func(o *options) {
		o.encoding = label
	}
}

// WithFileSystem reads fixture files through fsProvider.
func WithFileSystem(fsProvider filesystem.FileSystemProvider) Option {
	return func(o *options) {
		o.fsProvider = fsProvider
	}
}

// WithObserver receives file and insert notifications.
func WithObserver(obs dbseed.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

func buildOptions(opts []Option) *options {
	o := &options{encoding: dbseed.DefaultEncoding}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newLoader(store dbseed.Store, o *options) (*loader.Loader, error) {
	return loader.New(store, loader.WithObserver(o.observer))
}

func newReader(o *options) (*reader.Reader, error) {
	readerOpts := []reader.Option{reader.WithEncoding(o.encoding), reader.WithObserver(o.observer)}
	if o.fsProvider != nil {
		readerOpts = append(readerOpts, reader.WithFileSystem(o.fsProvider))
	}
	return reader.New(readerOpts...)
}

// LoadFixture inserts a single fixture.
func LoadFixture(ctx context.Context, fixture dbseed.Fixture, store dbseed.Store, opts ...Option) error {
	if fixture.Table == "" || store == nil {
		return errInsufficientArguments
	}
	l, err := newLoader(store, buildOptions(opts))
	if err != nil {
		return err
	}
	return l.LoadFixture(ctx, fixture)
}

// LoadFixtures inserts fixtures in order, stopping at the first failure.
func LoadFixtures(ctx context.Context, fixtures []dbseed.Fixture, store dbseed.Store, opts ...Option) error {
	if fixtures == nil || store == nil {
		return errInsufficientArguments
	}
	l, err := newLoader(store, buildOptions(opts))
	if err != nil {
		return err
	}
	return l.LoadFixtures(ctx, fixtures)
}

// LoadFile reads every file matching pattern and inserts the fixtures.
func LoadFile(ctx context.Context, pattern string, store dbseed.Store, opts ...Option) error {
	if pattern == "" || store == nil {
		return errInsufficientArguments
	}
	return LoadFiles(ctx, []string{pattern}, store, opts...)
}

// LoadFiles reads all sources in list order and inserts the fixtures.
// Nothing is inserted when any source fails to read.
func LoadFiles(ctx context.Context, sources []string, store dbseed.Store, opts ...Option) error {
	if len(sources) == 0 || store == nil {
		return errInsufficientArguments
	}

	o := buildOptions(opts)
	r, err := newReader(o)
	if err != nil {
		return err
	}
	l, err := newLoader(store, o)
	if err != nil {
		return err
	}

	fixtures, err := r.ReadFiles(sources)
	if err != nil {
		return err
	}
	return l.LoadFixtures(ctx, fixtures)
}
