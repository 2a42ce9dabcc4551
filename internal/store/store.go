// Package store owns the loaded catalog snapshot and the per-catalog
// prerequisite indexes derived from it.
//
// The snapshot is immutable for the life of the process. Indexes are built
// lazily on first use and exactly once per catalog, so concurrent first
// requests for the same catalog share one build.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prereqs/prereqs-server/internal/domain"
	domainerrors "github.com/prereqs/prereqs-server/internal/errors"
	"github.com/prereqs/prereqs-server/internal/id"
	"github.com/prereqs/prereqs-server/internal/prereq"
)

// IndexBuiltFunc observes index construction.
type IndexBuiltFunc func(slug string, ix *prereq.Index, took time.Duration)

type lazyIndex struct {
	once    sync.Once
	catalog *domain.Catalog
	ix      *prereq.Index
}

// Store serves catalogs and their indexes.
type Store struct {
	set        *domain.CatalogSet
	indexes    map[string]*lazyIndex
	snapshotID string
	loadedAt   time.Time
	logger     *slog.Logger
	onBuilt    IndexBuiltFunc
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIndexBuilt registers a callback run after each index build.
func WithIndexBuilt(fn IndexBuiltFunc) Option {
	return func(s *Store) {
		s.onBuilt = fn
	}
}

// New creates a store over set. A nil set yields a store whose reads fail
// with ErrCatalogsUnavailable.
func New(set *domain.CatalogSet, opts ...Option) *Store {
	s := &Store{
		set:        set,
		indexes:    make(map[string]*lazyIndex, set.Len()),
		snapshotID: id.Snapshot(),
		loadedAt:   time.Now().UTC(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, c := range set.All() {
		s.indexes[c.Slug] = &lazyIndex{catalog: c}
	}

	return s
}

// SnapshotID identifies the loaded catalog snapshot.
func (s *Store) SnapshotID() string {
	return s.snapshotID
}

// LoadedAt is when the snapshot was handed to the store.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// Catalogs returns the full catalog set.
func (s *Store) Catalogs() (*domain.CatalogSet, error) {
	if s == nil || s.set == nil {
		return nil, domainerrors.ErrCatalogsUnavailable
	}
	return s.set, nil
}

// Catalog returns the catalog for slug.
func (s *Store) Catalog(slug string) (*domain.Catalog, error) {
	set, err := s.Catalogs()
	if err != nil {
		return nil, err
	}
	c, ok := set.Get(slug)
	if !ok {
		return nil, domainerrors.CatalogNotFound(slug)
	}
	return c, nil
}

// Index returns the prerequisite index for slug, building it on first use.
func (s *Store) Index(slug string) (*prereq.Index, error) {
	if _, err := s.Catalogs(); err != nil {
		return nil, err
	}
	lazy, ok := s.indexes[slug]
	if !ok {
		return nil, domainerrors.CatalogNotFound(slug)
	}

	lazy.once.Do(func() {
		start := time.Now()
		lazy.ix = prereq.NewIndex(lazy.catalog)
		took := time.Since(start)

		s.logger.Debug("prerequisite index built",
			"slug", slug,
			"courses", lazy.ix.Len(),
			"edges", lazy.ix.EdgeCount(),
			"took", took,
		)
		if s.onBuilt != nil {
			s.onBuilt(slug, lazy.ix, took)
		}
	})

	return lazy.ix, nil
}

// Warm builds every index up front.
func (s *Store) Warm() error {
	set, err := s.Catalogs()
	if err != nil {
		return err
	}
	for _, slug := range set.Slugs() {
		if _, err := s.Index(slug); err != nil {
			return err
		}
	}
	return nil
}
