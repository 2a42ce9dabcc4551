package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/prereqs/prereqs-server/internal/domain"
)

const batchSize = 500

// CourseIndex wraps an in-memory Bleve index of every course.
//
// The index is filled once from an immutable catalog set, so reads need no
// locking of their own.
type CourseIndex struct {
	index  bleve.Index
	logger *slog.Logger
}

// Options configures the course index.
type Options struct {
	Logger *slog.Logger // discards when nil
}

// NewCourseIndex creates an empty in-memory index.
func NewCourseIndex(opts Options) (*CourseIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &CourseIndex{index: index, logger: logger}, nil
}

// Build creates an index holding every course in set.
func Build(ctx context.Context, set *domain.CatalogSet, opts Options) (*CourseIndex, error) {
	ix, err := NewCourseIndex(opts)
	if err != nil {
		return nil, err
	}

	var docs []*CourseDocument
	for _, cat := range set.All() {
		for i := range cat.Courses {
			if cat.Courses[i].Key() == "" {
				continue
			}
			docs = append(docs, NewCourseDocument(cat, &cat.Courses[i]))
		}
	}

	if err := ix.IndexDocuments(ctx, docs); err != nil {
		_ = ix.Close()
		return nil, err
	}

	ix.logger.Info("course search index built", "catalogs", set.Len(), "documents", len(docs))
	return ix, nil
}

// IndexDocuments indexes docs in batches of 500. A later document with the
// same ID replaces an earlier one.
func (s *CourseIndex) IndexDocuments(ctx context.Context, docs []*CourseDocument) error {
	for i := 0; i < len(docs); i += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed courses.
func (s *CourseIndex) DocumentCount() (uint64, error) {
	return s.index.DocCount()
}

// Close releases the index.
func (s *CourseIndex) Close() error {
	return s.index.Close()
}
