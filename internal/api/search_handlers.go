package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/prereqs/prereqs-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCourses",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Full-text course search",
		Description: "Ranked search over course names, descriptions and requirements across every catalog",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains parameters for full-text search.
type SearchInput struct {
	Q     string `query:"q" doc:"Search query"`
	Slug  string `query:"slug" doc:"Restrict results to one catalog"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum number of hits (0 uses the server default)"`
}

// SearchOutput contains ranked hits.
type SearchOutput struct {
	Body *search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	res, err := s.catalogs.FullTextSearch(ctx, input.Q, input.Slug, input.Limit)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &SearchOutput{Body: res}, nil
}
