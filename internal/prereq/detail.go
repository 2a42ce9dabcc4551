package prereq

import (
	"github.com/prereqs/prereqs-server/internal/domain"
	domainerrors "github.com/prereqs/prereqs-server/internal/errors"
	"github.com/prereqs/prereqs-server/internal/normalize"
)

// BuildDetail assembles the CourseDetail for courseID within the catalog
// indexed by ix. set supplies the other catalogs for external lookups.
// A course id unknown to the catalog yields a CourseNotFound error.
func BuildDetail(ix *Index, set *domain.CatalogSet, courseID string) (*domain.CourseDetail, error) {
	catalog := ix.Catalog()
	key := normalize.CourseID(courseID)

	target, ok := ix.Course(key)
	if !ok {
		return nil, domainerrors.CourseNotFound(catalog.Slug, courseID)
	}

	ancestors, missing := Ancestors(ix, key)
	descendants := Descendants(ix, key)
	external, stillMissing := ResolveExternal(missing, catalog.Slug, set)

	related := Union(ancestors, descendants)
	related.Add(key)

	relatedCourses := RelatedCourses(catalog, related)
	if len(relatedCourses) == 0 {
		relatedCourses = []domain.Course{*target}
	}

	return &domain.CourseDetail{
		Department:       catalog.Department,
		Slug:             catalog.Slug,
		GeneratedAt:      catalog.GeneratedAt,
		Course:           *target,
		Prerequisites:    InCatalogOrder(catalog, ancestors),
		Postrequisites:   InCatalogOrder(catalog, descendants),
		MissingPrereqIDs: stillMissing,
		ExternalPrereqs:  external,
		RelatedCourses:   relatedCourses,
	}, nil
}

// InCatalogOrder returns the catalog's courses whose key is in ids, in
// catalog order. Duplicate course entries sharing a key are all included,
// matching a single scan of the catalog.
func InCatalogOrder(c *domain.Catalog, ids IDSet) []domain.Course {
	out := []domain.Course{}
	for i := range c.Courses {
		if ids.Has(c.Courses[i].Key()) {
			out = append(out, c.Courses[i])
		}
	}
	return out
}

// RelatedCourses returns, in catalog order, a copy of every course in
// related with its prerequisite groups filtered down to ids in related.
func RelatedCourses(c *domain.Catalog, related IDSet) []domain.Course {
	out := []domain.Course{}
	for i := range c.Courses {
		course := c.Courses[i]
		if !related.Has(course.Key()) {
			continue
		}
		out = append(out, course.WithPrereqGroups(FilterGroups(course.PrereqGroups, related)))
	}
	return out
}

// FilterGroups keeps only ids whose normalized form is in allowed. Groups
// left empty are dropped. The input is not modified.
func FilterGroups(groups [][]string, allowed IDSet) [][]string {
	filtered := [][]string{}
	for _, group := range groups {
		var kept []string
		for _, id := range group {
			if allowed.Has(normalize.CourseID(id)) {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}
