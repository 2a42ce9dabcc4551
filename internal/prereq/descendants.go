package prereq

// Descendants returns every course key that transitively depends on start,
// following the reverse edges of the index. Start itself is excluded even when
// a cycle leads back to it. Each reachable node is expanded once.
func Descendants(ix *Index, start string) IDSet {
	found := IDSet{}
	expanded := IDSet{start: {}}

	var stack []string
	for child := range ix.Children(start) {
		stack = append(stack, child)
	}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if expanded.Has(current) {
			continue
		}
		expanded.Add(current)
		found.Add(current)

		for child := range ix.Children(current) {
			if !expanded.Has(child) {
				stack = append(stack, child)
			}
		}
	}

	return found
}
