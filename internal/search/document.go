// Package search provides full-text course search across every loaded
// catalog using an in-memory Bleve index.
package search

import (
	"github.com/prereqs/prereqs-server/internal/domain"
)

// CourseDocument is the indexed form of one course.
type CourseDocument struct {
	ID           string `json:"-"`
	Slug         string `json:"slug"`
	Department   string `json:"department"`
	CourseID     string `json:"course_id"`
	CourseKey    string `json:"course_key"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

// DocumentID is the index identity of a course: slug and normalized id.
func DocumentID(slug, courseKey string) string {
	return slug + "/" + courseKey
}

// NewCourseDocument builds the document for course c of catalog cat.
func NewCourseDocument(cat *domain.Catalog, c *domain.Course) *CourseDocument {
	key := c.Key()
	return &CourseDocument{
		ID:           DocumentID(cat.Slug, key),
		Slug:         cat.Slug,
		Department:   cat.Department,
		CourseID:     c.ID,
		CourseKey:    key,
		Name:         c.Name,
		Description:  c.Description,
		Requirements: c.RawRequirements,
	}
}

// ToMap converts the document to the field map the mapping expects.
func (d *CourseDocument) ToMap() map[string]any {
	m := map[string]any{
		"slug":       d.Slug,
		"department": d.Department,
		"course_id":  d.CourseID,
		"course_key": d.CourseKey,
		"name":       d.Name,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Requirements != "" {
		m["requirements"] = d.Requirements
	}
	return m
}
