package prereq

import (
	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/normalize"
)

// Index is the normalized view of one catalog: course lookup by key and the
// reverse "is a prerequisite of" edges.
type Index struct {
	catalog  *domain.Catalog
	courses  map[string]*domain.Course
	children map[string]IDSet
	refs     int
}

// NewIndex builds the index for c. It never fails: empty groups and empty
// ids are skipped. Duplicate course ids resolve last-write-wins.
func NewIndex(c *domain.Catalog) *Index {
	ix := &Index{
		catalog:  c,
		courses:  make(map[string]*domain.Course, len(c.Courses)),
		children: make(map[string]IDSet),
	}

	for i := range c.Courses {
		course := &c.Courses[i]
		key := course.Key()
		if key == "" {
			continue
		}
		ix.courses[key] = course

		for _, ref := range course.PrereqRefs() {
			parent := normalize.CourseID(ref)
			if parent == "" {
				continue
			}
			deps, ok := ix.children[parent]
			if !ok {
				deps = make(IDSet)
				ix.children[parent] = deps
			}
			deps.Add(key)
			ix.refs++
		}
	}

	return ix
}

// Catalog returns the catalog the index was built from.
func (ix *Index) Catalog() *domain.Catalog {
	return ix.catalog
}

// Course returns the course stored under a normalized key.
func (ix *Index) Course(key string) (*domain.Course, bool) {
	c, ok := ix.courses[key]
	return c, ok
}

// Lookup normalizes id and returns the matching course.
func (ix *Index) Lookup(id string) (*domain.Course, bool) {
	return ix.Course(normalize.CourseID(id))
}

// Children returns the keys of courses that list key as a prerequisite.
// The returned set must not be modified.
func (ix *Index) Children(key string) IDSet {
	return ix.children[key]
}

// Len returns the number of distinct course keys.
func (ix *Index) Len() int {
	return len(ix.courses)
}

// EdgeCount returns the number of prerequisite references indexed.
func (ix *Index) EdgeCount() int {
	return ix.refs
}
