package domain

import (
	"slices"
)

// Catalog is one department's ordered course list. Course order is the
// catalog order used for every ordered output.
type Catalog struct {
	Department  string   `json:"department" yaml:"department" validate:"required"`
	Slug        string   `json:"slug" yaml:"slug" validate:"required"`
	URL         string   `json:"url,omitempty" yaml:"url"`
	GeneratedAt string   `json:"generated_at,omitempty" yaml:"generated_at"`
	Courses     []Course `json:"courses" yaml:"courses" validate:"dive"`
}

// Summary returns the department listing entry for the catalog.
func (c *Catalog) Summary() DepartmentSummary {
	return DepartmentSummary{
		Department: c.Department,
		Slug:       c.Slug,
		URL:        c.URL,
	}
}

// DepartmentSummary identifies a loaded catalog.
type DepartmentSummary struct {
	Department string `json:"department" doc:"Department display name"`
	Slug       string `json:"slug" doc:"Catalog slug"`
	URL        string `json:"url,omitempty" doc:"Source catalog URL"`
}

// CatalogSet is the immutable slug -> Catalog mapping the whole service
// reads from. Iteration order is ascending slug.
type CatalogSet struct {
	bySlug map[string]*Catalog
	slugs  []string
}

// NewCatalogSet builds a set from catalogs. When two catalogs share a slug
// the later one wins.
func NewCatalogSet(catalogs ...*Catalog) *CatalogSet {
	set := &CatalogSet{bySlug: make(map[string]*Catalog, len(catalogs))}
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		set.bySlug[c.Slug] = c
	}
	set.slugs = make([]string, 0, len(set.bySlug))
	for slug := range set.bySlug {
		set.slugs = append(set.slugs, slug)
	}
	slices.Sort(set.slugs)
	return set
}

// Get returns the catalog for slug.
func (s *CatalogSet) Get(slug string) (*Catalog, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.bySlug[slug]
	return c, ok
}

// Len reports the number of catalogs.
func (s *CatalogSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slugs)
}

// Slugs returns the slugs in ascending order.
func (s *CatalogSet) Slugs() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.slugs)
}

// All returns the catalogs in ascending slug order.
func (s *CatalogSet) All() []*Catalog {
	if s == nil {
		return nil
	}
	out := make([]*Catalog, 0, len(s.slugs))
	for _, slug := range s.slugs {
		out = append(out, s.bySlug[slug])
	}
	return out
}

// CourseCount returns the total number of courses across all catalogs.
func (s *CatalogSet) CourseCount() int {
	total := 0
	for _, c := range s.All() {
		total += len(c.Courses)
	}
	return total
}
