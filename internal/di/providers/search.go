package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/logger"
	"github.com/prereqs/prereqs-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.CourseIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index over every loaded course.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	set := do.MustInvoke[*domain.CatalogSet](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Build(context.Background(), set, search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{CourseIndex: index}, nil
}
