package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/prereqs/prereqs-server/internal/catalog"
	"github.com/prereqs/prereqs-server/internal/config"
	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/logger"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/prereq"
	"github.com/prereqs/prereqs-server/internal/store"
)

// catalogLoadTimeout bounds reading every course directory at startup.
const catalogLoadTimeout = time.Minute

// ProvideCatalogSet loads every catalog document from the configured directories.
func ProvideCatalogSet(i do.Injector) (*domain.CatalogSet, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
	defer cancel()

	start := time.Now()
	set, err := catalog.NewLoader(log.Logger).Load(ctx, cfg.Catalog.Dirs...)
	if err != nil {
		return nil, err
	}

	log.Info("Catalogs loaded",
		"catalogs", set.Len(),
		"courses", set.CourseCount(),
		"took", time.Since(start),
	)

	return set, nil
}

// StoreHandle wraps the catalog store.
type StoreHandle struct {
	*store.Store
}

// ProvideStore provides the catalog store and builds every index up front so
// the first request does not pay for it.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	set := do.MustInvoke[*domain.CatalogSet](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Registry](i)

	st := store.New(set,
		store.WithLogger(log.Logger),
		store.WithIndexBuilt(func(slug string, ix *prereq.Index, took time.Duration) {
			m.RecordIndexBuild(slug, ix.EdgeCount(), took)
		}),
	)
	if err := st.Warm(); err != nil {
		return nil, err
	}

	m.RecordSnapshot(set.Len(), set.CourseCount())
	log.Info("Catalog store ready", "snapshot_id", st.SnapshotID())

	return &StoreHandle{Store: st}, nil
}
