// Package domain contains the course catalog entities shared by the loader, the
// prerequisite resolver and the HTTP API.
package domain

import "github.com/prereqs/prereqs-server/internal/normalize"

// Course is one entry of a department catalog.
//
// PrereqGroups is an AND of ORs: every group must be satisfied, and any single
// id inside a group satisfies that group.
type Course struct {
	ID              string     `json:"id" yaml:"id" validate:"required"`
	Name            string     `json:"name" yaml:"name"`
	Description     string     `json:"description" yaml:"description"`
	Credits         string     `json:"credits,omitempty" yaml:"credits"`
	RawRequirements string     `json:"rawRequirements,omitempty" yaml:"rawRequirements"`
	PrereqGroups    [][]string `json:"prereqGroups" yaml:"prereqGroups"`
}

// Key returns the normalized identity of the course.
func (c *Course) Key() string {
	return normalize.CourseID(c.ID)
}

// PrereqRefs flattens PrereqGroups into one list in group order, then
// within-group order. Empty ids are dropped.
func (c *Course) PrereqRefs() []string {
	var refs []string
	for _, group := range c.PrereqGroups {
		for _, id := range group {
			if id != "" {
				refs = append(refs, id)
			}
		}
	}
	return refs
}

// WithPrereqGroups returns a copy of the course carrying groups instead of
// its own prerequisite groups. The receiver is left untouched.
func (c Course) WithPrereqGroups(groups [][]string) Course {
	if groups == nil {
		groups = [][]string{}
	}
	c.PrereqGroups = groups
	return c
}

// CourseSummary is the compact id/name pair returned by catalog search.
type CourseSummary struct {
	ID   string `json:"id" doc:"Course identifier"`
	Name string `json:"name" doc:"Course display name"`
}
