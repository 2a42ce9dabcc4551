package prereq

import (
	"strconv"

	"github.com/prereqs/prereqs-server/internal/domain"
)

func course(id string, groups ...[]string) domain.Course {
	if groups == nil {
		groups = [][]string{}
	}
	return domain.Course{ID: id, Name: id + " name", PrereqGroups: groups}
}

func group(ids ...string) []string {
	return ids
}

func catalog(slug, department string, courses ...domain.Course) *domain.Catalog {
	return &domain.Catalog{Department: department, Slug: slug, Courses: courses}
}

// scenarioSet is the cse/math example used throughout the detail tests.
func scenarioSet() *domain.CatalogSet {
	cse := catalog("cse", "Computer Science",
		course("CSE101"),
		course("CSE102", group("CSE101")),
		course("CSE201", group("CSE102"), group("MATH101", "MATH103")),
	)
	math := catalog("math", "Mathematics",
		course("MATH101"),
	)
	return domain.NewCatalogSet(cse, math)
}

func courseIDs(courses []domain.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func nodeID(i int) string {
	return "N" + strconv.Itoa(i)
}
