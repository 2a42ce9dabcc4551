package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/prereqs/prereqs-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalogs",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List catalogs",
		Description: "Returns one entry per loaded department catalog, sorted by slug",
		Tags:        []string{"Catalogs"},
	}, s.handleListCatalogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalog",
		Method:      http.MethodGet,
		Path:        "/courses/{slug}",
		Summary:     "Get catalog",
		Description: "Returns the full catalog for a department",
		Tags:        []string{"Catalogs"},
	}, s.handleGetCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/courses/{slug}/search",
		Summary:     "Search catalog",
		Description: "Case-insensitive substring match on course id or name, at most 25 results in catalog order",
		Tags:        []string{"Catalogs"},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCourseDetail",
		Method:      http.MethodGet,
		Path:        "/courses/{slug}/classes/{course_id}",
		Summary:     "Get course detail",
		Description: "Returns a course with its transitive prerequisites, postrequisites, missing and external prerequisites",
		Tags:        []string{"Courses"},
	}, s.handleCourseDetail)
}

// === DTOs ===

// ListCatalogsOutput contains the catalog listing.
type ListCatalogsOutput struct {
	Body []domain.DepartmentSummary
}

// CatalogPathInput identifies a catalog.
type CatalogPathInput struct {
	Slug string `path:"slug" doc:"Catalog slug"`
}

// GetCatalogOutput contains a full catalog.
type GetCatalogOutput struct {
	Body *domain.Catalog
}

// SearchCatalogInput contains parameters for a substring search.
type SearchCatalogInput struct {
	Slug string `path:"slug" doc:"Catalog slug"`
	Q    string `query:"q" doc:"Substring to match against course id or name; empty matches everything"`
}

// SearchCatalogOutput contains matching course summaries.
type SearchCatalogOutput struct {
	Body []domain.CourseSummary
}

// CourseDetailInput identifies a course within a catalog.
type CourseDetailInput struct {
	Slug     string `path:"slug" doc:"Catalog slug"`
	CourseID string `path:"course_id" doc:"Course id; whitespace and case are ignored"`
}

// CourseDetailOutput contains the detail view of a course.
type CourseDetailOutput struct {
	Body *domain.CourseDetail
}

// === Handlers ===

func (s *Server) handleListCatalogs(ctx context.Context, _ *struct{}) (*ListCatalogsOutput, error) {
	summaries, err := s.catalogs.ListDepartments(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &ListCatalogsOutput{Body: summaries}, nil
}

func (s *Server) handleGetCatalog(ctx context.Context, input *CatalogPathInput) (*GetCatalogOutput, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, input.Slug)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &GetCatalogOutput{Body: catalog}, nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	results, err := s.catalogs.SearchCourses(ctx, input.Slug, input.Q)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &SearchCatalogOutput{Body: results}, nil
}

func (s *Server) handleCourseDetail(ctx context.Context, input *CourseDetailInput) (*CourseDetailOutput, error) {
	detail, err := s.catalogs.CourseDetail(ctx, input.Slug, input.CourseID)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &CourseDetailOutput{Body: detail}, nil
}
