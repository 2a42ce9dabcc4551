// Package service implements the catalog operations served over HTTP.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prereqs/prereqs-server/internal/domain"
	domainerrors "github.com/prereqs/prereqs-server/internal/errors"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/normalize"
	"github.com/prereqs/prereqs-server/internal/prereq"
	"github.com/prereqs/prereqs-server/internal/search"
	"github.com/prereqs/prereqs-server/internal/store"
)

// MaxSearchResults caps catalog substring search.
const MaxSearchResults = 25

// Options tunes a CatalogService.
type Options struct {
	// DetailCacheSize is the number of CourseDetail views kept; 0 disables caching.
	DetailCacheSize int
	// SearchMaxResults caps full-text search hits.
	SearchMaxResults int
}

// CatalogService lists catalogs, searches courses and builds course details.
//
// Cached details are shared between callers and must be treated as read-only.
type CatalogService struct {
	store   *store.Store
	index   *search.CourseIndex
	metrics *metrics.Registry
	cache   *lru.Cache[string, *domain.CourseDetail]
	opts    Options
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service. index and m may be nil; a nil
// index disables full-text search.
func NewCatalogService(st *store.Store, index *search.CourseIndex, m *metrics.Registry, logger *slog.Logger, opts Options) (*CatalogService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SearchMaxResults <= 0 {
		opts.SearchMaxResults = MaxSearchResults
	}

	s := &CatalogService{
		store:   st,
		index:   index,
		metrics: m,
		opts:    opts,
		logger:  logger,
	}

	if opts.DetailCacheSize > 0 {
		cache, err := lru.New[string, *domain.CourseDetail](opts.DetailCacheSize)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create detail cache")
		}
		s.cache = cache
	}

	return s, nil
}

// ListDepartments returns one summary per catalog, ascending by slug.
func (s *CatalogService) ListDepartments(_ context.Context) ([]domain.DepartmentSummary, error) {
	set, err := s.catalogs()
	if err != nil {
		return nil, err
	}

	out := make([]domain.DepartmentSummary, 0, set.Len())
	for _, c := range set.All() {
		out = append(out, c.Summary())
	}
	return out, nil
}

// GetCatalog returns the full catalog for slug.
func (s *CatalogService) GetCatalog(_ context.Context, slug string) (*domain.Catalog, error) {
	if s.store == nil {
		return nil, domainerrors.ErrCatalogsUnavailable
	}
	return s.store.Catalog(slug)
}

// SearchCourses returns up to MaxSearchResults courses of slug whose id or
// name contains q, ignoring case and surrounding whitespace. An empty q
// matches every course. Results are in catalog order.
func (s *CatalogService) SearchCourses(ctx context.Context, slug, q string) ([]domain.CourseSummary, error) {
	c, err := s.GetCatalog(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordSearch(metrics.SearchSubstring)
	}

	needle := normalize.SearchQuery(q)
	out := []domain.CourseSummary{}
	for i := range c.Courses {
		course := &c.Courses[i]
		if needle != "" &&
			!strings.Contains(normalize.Fold(course.ID), needle) &&
			!strings.Contains(normalize.Fold(course.Name), needle) {
			continue
		}
		out = append(out, domain.CourseSummary{ID: course.ID, Name: course.Name})
		if len(out) == MaxSearchResults {
			break
		}
	}
	return out, nil
}

// CourseDetail builds the prerequisite view of courseID within slug.
func (s *CatalogService) CourseDetail(_ context.Context, slug, courseID string) (*domain.CourseDetail, error) {
	if s.store == nil {
		return nil, domainerrors.ErrCatalogsUnavailable
	}

	cacheKey := slug + "\x00" + normalize.CourseID(courseID)
	if s.cache != nil {
		if detail, ok := s.cache.Get(cacheKey); ok {
			s.recordCache(true)
			return detail, nil
		}
		s.recordCache(false)
	}

	ix, err := s.store.Index(slug)
	if err != nil {
		return nil, err
	}
	set, err := s.store.Catalogs()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	detail, err := prereq.BuildDetail(ix, set, courseID)
	if err != nil {
		return nil, err
	}
	took := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordDetailBuild(took)
	}

	s.logger.Debug("course detail built",
		"slug", slug,
		"course_id", courseID,
		"prerequisites", len(detail.Prerequisites),
		"postrequisites", len(detail.Postrequisites),
		"missing", len(detail.MissingPrereqIDs),
		"took", took,
	)

	if s.cache != nil {
		s.cache.Add(cacheKey, detail)
	}
	return detail, nil
}

// FullTextSearch searches names, descriptions and requirement text across
// every catalog, or only slug when it is set. limit is clamped to the
// configured maximum.
func (s *CatalogService) FullTextSearch(ctx context.Context, q, slug string, limit int) (*search.Result, error) {
	if s.index == nil {
		return nil, &domainerrors.Error{Code: domainerrors.CodeUnavailable, Message: "full-text search is not available"}
	}
	if strings.TrimSpace(q) == "" {
		return nil, domainerrors.ValidationWithDetails("query must not be empty", map[string]string{"q": "is required"})
	}
	if slug != "" {
		if _, err := s.GetCatalog(ctx, slug); err != nil {
			return nil, err
		}
	}
	if limit <= 0 || limit > s.opts.SearchMaxResults {
		limit = s.opts.SearchMaxResults
	}

	if s.metrics != nil {
		s.metrics.RecordSearch(metrics.SearchFullText)
	}

	res, err := s.index.Search(ctx, search.Params{Query: q, Slug: slug, Limit: limit})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return res, nil
}

// Stats summarizes the loaded snapshot for health reporting.
type Stats struct {
	SnapshotID     string
	LoadedAt       time.Time
	Catalogs       int
	Courses        int
	IndexedCourses uint64
}

// Stats reports what is currently being served.
func (s *CatalogService) Stats(_ context.Context) (Stats, error) {
	set, err := s.catalogs()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		SnapshotID: s.store.SnapshotID(),
		LoadedAt:   s.store.LoadedAt(),
		Catalogs:   set.Len(),
		Courses:    set.CourseCount(),
	}
	if s.index != nil {
		n, err := s.index.DocumentCount()
		if err != nil {
			return Stats{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "count indexed courses")
		}
		st.IndexedCourses = n
	}
	return st, nil
}

// SnapshotID identifies the catalog snapshot being served, or "" when none is.
func (s *CatalogService) SnapshotID() string {
	if s.store == nil {
		return ""
	}
	return s.store.SnapshotID()
}

func (s *CatalogService) catalogs() (*domain.CatalogSet, error) {
	if s.store == nil {
		return nil, domainerrors.ErrCatalogsUnavailable
	}
	return s.store.Catalogs()
}

func (s *CatalogService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
