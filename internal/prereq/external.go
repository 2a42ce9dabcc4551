package prereq

import (
	"github.com/prereqs/prereqs-server/internal/domain"
	"github.com/prereqs/prereqs-server/internal/normalize"
)

// ResolveExternal looks up ids that were missing from the catalog identified
// by currentSlug in every other catalog of set.
//
// Ids are deduplicated by normalized key; the first spelling is the one
// reported. Other catalogs are searched in ascending slug order and the first
// catalog holding a match wins; within a catalog the first course in catalog
// order wins. Ids found nowhere are returned as still missing, in input order.
func ResolveExternal(missing []string, currentSlug string, set *domain.CatalogSet) ([]domain.ExternalCourseRef, []string) {
	external := []domain.ExternalCourseRef{}
	stillMissing := []string{}
	seen := IDSet{}

	others := make([]*domain.Catalog, 0, set.Len())
	for _, c := range set.All() {
		if c.Slug != currentSlug {
			others = append(others, c)
		}
	}

	for _, id := range missing {
		key := normalize.CourseID(id)
		if key == "" || seen.Has(key) {
			continue
		}
		seen.Add(key)

		ref, ok := findInCatalogs(key, others)
		if !ok {
			stillMissing = append(stillMissing, id)
			continue
		}
		external = append(external, ref)
	}

	return external, stillMissing
}

func findInCatalogs(key string, catalogs []*domain.Catalog) (domain.ExternalCourseRef, bool) {
	for _, c := range catalogs {
		for i := range c.Courses {
			if c.Courses[i].Key() == key {
				return domain.ExternalCourseRef{
					Slug:       c.Slug,
					Department: c.Department,
					Course:     c.Courses[i],
				}, true
			}
		}
	}
	return domain.ExternalCourseRef{}, false
}
