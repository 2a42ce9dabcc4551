package prereq

import "github.com/prereqs/prereqs-server/internal/normalize"

// Ancestors walks prerequisite edges depth-first from start.
//
// It returns every course key transitively required by start (start itself
// excluded) and the referenced ids that have no course in this catalog, in
// first-encountered order with one entry per normalized key. Missing ids keep
// the spelling of their first occurrence and are never walked into.
//
// The walk uses an explicit stack of frames so that order matches a
// recursive depth-first traversal: a matched prerequisite is fully explored
// before its next sibling is examined.
func Ancestors(ix *Index, start string) (IDSet, []string) {
	visited := IDSet{}
	missing := []string{}

	course, ok := ix.Course(start)
	if !ok {
		return visited, missing
	}

	type frame struct {
		refs []string
		next int
	}

	seen := IDSet{start: {}}
	missingSeen := IDSet{}
	stack := []frame{{refs: course.PrereqRefs()}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.refs) {
			stack = stack[:len(stack)-1]
			continue
		}
		ref := top.refs[top.next]
		top.next++

		key := normalize.CourseID(ref)
		if key == "" {
			continue
		}

		match, ok := ix.Course(key)
		if !ok {
			if !missingSeen.Has(key) {
				missingSeen.Add(key)
				missing = append(missing, ref)
			}
			continue
		}
		if seen.Has(key) {
			continue
		}
		seen.Add(key)
		visited.Add(key)
		stack = append(stack, frame{refs: match.PrereqRefs()})
	}

	return visited, missing
}
