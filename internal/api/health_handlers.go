package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the loaded snapshot and search index size",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status         string    `json:"status" doc:"Overall status: healthy or degraded"`
	SnapshotID     string    `json:"snapshot_id" doc:"Id of the catalog snapshot being served"`
	LoadedAt       time.Time `json:"loaded_at" doc:"When the snapshot was loaded"`
	Catalogs       int       `json:"catalogs" doc:"Number of loaded catalogs"`
	Courses        int       `json:"courses" doc:"Number of courses across all catalogs"`
	IndexedCourses uint64    `json:"indexed_courses" doc:"Documents in the full-text index"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	stats, err := s.catalogs.Stats(ctx)
	if err != nil {
		return nil, toHTTPError(err)
	}

	status := "healthy"
	// The index is optional; an empty one only degrades /search.
	if stats.IndexedCourses == 0 && stats.Courses > 0 {
		status = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:         status,
			SnapshotID:     stats.SnapshotID,
			LoadedAt:       stats.LoadedAt,
			Catalogs:       stats.Catalogs,
			Courses:        stats.Courses,
			IndexedCourses: stats.IndexedCourses,
		},
	}, nil
}
