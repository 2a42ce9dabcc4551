package metrics

import (
	"time"
)

// Search kinds.
const (
	SearchSubstring = "substring"
	SearchFullText  = "fulltext"
)

// RecordHTTPRequest records a completed HTTP request.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordSnapshot sets the catalog and course gauges.
func (r *Registry) RecordSnapshot(catalogs, courses int) {
	r.CatalogsLoaded.Set(float64(catalogs))
	r.CoursesLoaded.Set(float64(courses))
}

// RecordIndexBuild records one prerequisite index build.
func (r *Registry) RecordIndexBuild(slug string, edges int, took time.Duration) {
	r.IndexBuildDuration.WithLabelValues(slug).Observe(took.Seconds())
	r.IndexEdges.WithLabelValues(slug).Set(float64(edges))
}

// RecordDetailBuild records one course detail assembly.
func (r *Registry) RecordDetailBuild(took time.Duration) {
	r.DetailBuildDuration.Observe(took.Seconds())
}

// RecordCacheLookup counts a detail cache hit or miss.
func (r *Registry) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.DetailCacheResults.WithLabelValues(result).Inc()
}

// RecordSearch counts a search of the given kind.
func (r *Registry) RecordSearch(kind string) {
	r.SearchQueriesTotal.WithLabelValues(kind).Inc()
}
