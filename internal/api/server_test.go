package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/ratelimit"
	"github.com/prereqs/prereqs-server/internal/search"
	"github.com/prereqs/prereqs-server/internal/service"
	"github.com/prereqs/prereqs-server/internal/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *domain.CatalogSet {
	return domain.NewCatalogSet(
		&domain.Catalog{Department: "Mathematics", Slug: "math", URL: "https://example.edu/math", Courses: []domain.Course{
			{ID: "MATH101", Name: "Calculus I", PrereqGroups: [][]string{}},
		}},
		&domain.Catalog{Department: "Computer Science", Slug: "cse", Courses: []domain.Course{
			{ID: "CSE101", Name: "Intro to Programming", PrereqGroups: [][]string{}},
			{ID: "CSE102", Name: "Data Structures", PrereqGroups: [][]string{{"CSE101"}}},
			{ID: "CSE 201", Name: "Algorithms", Description: "Graph algorithms", PrereqGroups: [][]string{{"CSE102"}, {"MATH101", "MATH103"}}},
		}},
	)
}

type testServer struct {
	*Server
	store   *store.Store
	metrics *metrics.Registry
}

func setupTestServer(t *testing.T, limiter *ratelimit.KeyedRateLimiter) *testServer {
	t.Helper()

	set := testSet()
	index, err := search.Build(context.Background(), set, search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	st := store.New(set)
	m := metrics.NewRegistry()
	svc, err := service.NewCatalogService(st, index, m, nil, service.Options{})
	require.NoError(t, err)

	if limiter != nil {
		t.Cleanup(limiter.Stop)
	}

	return &testServer{
		Server:  NewServer(svc, m, limiter, nil, Options{Version: "test"}),
		store:   st,
		metrics: m,
	}
}

func decodeError(t *testing.T, body string) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(body), &apiErr))
	return apiErr
}

func TestListCatalogs(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/courses")
	require.Equal(t, http.StatusOK, resp.Code)

	var got []domain.DepartmentSummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, []domain.DepartmentSummary{
		{Department: "Computer Science", Slug: "cse"},
		{Department: "Mathematics", Slug: "math", URL: "https://example.edu/math"},
	}, got)
}

func TestGetCatalog(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/courses/cse")
	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.Catalog
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "cse", got.Slug)
	assert.Len(t, got.Courses, 3)
}

func TestGetCatalog_NotFound(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/courses/bio")
	require.Equal(t, http.StatusNotFound, resp.Code)

	apiErr := decodeError(t, resp.Body.String())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Course catalog 'bio' not found.", apiErr.Message)
}

func TestSearchCatalog(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	t.Run("substring", func(t *testing.T) {
		resp := api.Get("/courses/cse/search?q=data")
		require.Equal(t, http.StatusOK, resp.Code)

		var got []domain.CourseSummary
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, []domain.CourseSummary{{ID: "CSE102", Name: "Data Structures"}}, got)
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		resp := api.Get("/courses/cse/search?q=zzz")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `[]`, resp.Body.String())
	})

	t.Run("unknown catalog", func(t *testing.T) {
		resp := api.Get("/courses/bio/search?q=x")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestCourseDetail(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/courses/cse/classes/cse201")
	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.CourseDetail
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))

	assert.Equal(t, "CSE 201", got.Course.ID)
	assert.Equal(t, "Computer Science", got.Department)

	prereqs := make([]string, 0, len(got.Prerequisites))
	for _, c := range got.Prerequisites {
		prereqs = append(prereqs, c.ID)
	}
	assert.Equal(t, []string{"CSE101", "CSE102"}, prereqs)
	assert.Empty(t, got.Postrequisites)
	assert.Equal(t, []string{"MATH103"}, got.MissingPrereqIDs)

	require.Len(t, got.ExternalPrereqs, 1)
	assert.Equal(t, "math", got.ExternalPrereqs[0].Slug)
	assert.Equal(t, "MATH101", got.ExternalPrereqs[0].Course.ID)

	assert.Len(t, got.RelatedCourses, 3)
}

func TestCourseDetail_EncodedSpace(t *testing.T) {
	ts := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/courses/cse/classes/CSE%20201", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCourseDetail_NotFound(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	tests := []struct {
		name    string
		path    string
		message string
	}{
		{name: "unknown catalog", path: "/courses/bio/classes/BIO101", message: "Course catalog 'bio' not found."},
		{name: "unknown course", path: "/courses/cse/classes/NOPE", message: "Course 'NOPE' not found in 'cse'."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Get(tt.path)
			require.Equal(t, http.StatusNotFound, resp.Code)

			apiErr := decodeError(t, resp.Body.String())
			assert.Equal(t, "NOT_FOUND", apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestFullTextSearch(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	t.Run("ranked hits", func(t *testing.T) {
		resp := api.Get("/search?q=calculus")
		require.Equal(t, http.StatusOK, resp.Code)

		var got search.Result
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		require.NotEmpty(t, got.Hits)
		assert.Equal(t, "MATH101", got.Hits[0].ID)
		assert.Equal(t, "math", got.Hits[0].Slug)
	})

	t.Run("slug filter", func(t *testing.T) {
		resp := api.Get("/search?q=calculus&slug=cse")
		require.Equal(t, http.StatusOK, resp.Code)

		var got search.Result
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Empty(t, got.Hits)
	})

	t.Run("blank query", func(t *testing.T) {
		resp := api.Get("/search?q=")
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.String()).Code)
	})

	t.Run("limit out of range", func(t *testing.T) {
		resp := api.Get("/search?q=calculus&limit=1000")
		require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.String()).Code)
	})
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var got HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, ts.store.SnapshotID(), got.SnapshotID)
	assert.Equal(t, 2, got.Catalogs)
	assert.Equal(t, 4, got.Courses)
	assert.Equal(t, uint64(4), got.IndexedCourses)
}

func TestSnapshotHeader(t *testing.T) {
	ts := setupTestServer(t, nil)
	api := humatest.Wrap(t, ts.API())

	resp := api.Get("/courses")
	assert.Equal(t, ts.store.SnapshotID(), resp.Header().Get(SnapshotHeader))
	assert.NotEmpty(t, resp.Header().Get(SnapshotHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, nil)

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec.Body.String()).Code)
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, ratelimit.New(0.001, 2))

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		ts.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/courses"))
	assert.Equal(t, http.StatusOK, do("/courses"))
	assert.Equal(t, http.StatusTooManyRequests, do("/courses"))
	assert.Equal(t, http.StatusOK, do("/health"), "health checks are exempt")

	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRateLimited), 0)

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, nil)

	ts.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courses/cse/classes/CSE102", nil))

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `prereqs_http_requests_total{method="GET",route="/courses/{slug}/classes/{course_id}",status="200"} 1`), body)
	assert.Contains(t, body, "prereqs_detail_build_duration_seconds")
}
