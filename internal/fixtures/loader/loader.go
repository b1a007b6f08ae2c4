package loader

import (
	"context"
	"fmt"

	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// Loader inserts fixtures through a dbseed.Store.
type Loader struct {
	store    dbseed.Store
	observer dbseed.Observer
}

// Option configures a Loader.
type Option func(*Loader)

// WithObserver notifies obs after every successful insert.
func WithObserver(obs dbseed.Observer) Option {
	return func(l *Loader) {
		if obs != nil {
			l.observer = obs
		}
	}
}

// New creates a Loader that writes to store.
func New(store dbseed.Store, opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: connection is required", dbseed.ErrInvalidArgument)
	}

	l := &Loader{
		store:    store,
		observer: dbseed.NopObserver{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadFixture issues exactly one insert. The store's error is returned unchanged.
func (l *Loader) LoadFixture(ctx context.Context, fixture dbseed.Fixture) error {
	return l.store.Insert(ctx, fixture.Table, fixture.Data)
}

// LoadFixtures inserts fixtures in order and stops at the first failure,
// returning the store's error unchanged. Fixtures after the failing one are
// never submitted.
func (l *Loader) LoadFixtures(ctx context.Context, fixtures []dbseed.Fixture) error {
	for i, fixture := range fixtures {
		if err := l.LoadFixture(ctx, fixture); err != nil {
			return err
		}
		l.observer.FixtureLoaded(i, fixture)
	}
	return nil
}
