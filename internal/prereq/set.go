package prereq

import "slices"

// IDSet is a set of normalized course ids.
type IDSet map[string]struct{}

// Has reports whether key is in the set.
func (s IDSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key.
func (s IDSet) Add(key string) {
	s[key] = struct{}{}
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Union returns a new set holding the members of every input.
func Union(sets ...IDSet) IDSet {
	out := make(IDSet)
	for _, s := range sets {
		for k := range s {
			out.Add(k)
		}
	}
	return out
}
