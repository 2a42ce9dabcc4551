package domain

// ExternalCourseRef points at a prerequisite that lives in another catalog.
type ExternalCourseRef struct {
	Slug       string `json:"slug" doc:"Slug of the catalog holding the course"`
	Department string `json:"department" doc:"Department of that catalog"`
	Course     Course `json:"course" doc:"The matched course"`
}

// CourseDetail is the per-request view of one course and its prerequisite
// neighbourhood. It is built fresh for every request and never mutated after.
type CourseDetail struct {
	Department       string              `json:"department"`
	Slug             string              `json:"slug"`
	GeneratedAt      string              `json:"generated_at,omitempty"`
	Course           Course              `json:"course"`
	Prerequisites    []Course            `json:"prerequisites"`
	Postrequisites   []Course            `json:"postrequisites"`
	MissingPrereqIDs []string            `json:"missing_prereq_ids"`
	ExternalPrereqs  []ExternalCourseRef `json:"external_prereqs"`
	RelatedCourses   []Course            `json:"related_courses"`
}
