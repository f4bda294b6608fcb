package util

// RemoveDuplicatesFromList returns the elements of list in order, keeping only the first occurrence of each.
func RemoveDuplicatesFromList[S ~[]E, E comparable](list S) S {
	seen := make(map[E]struct{}, len(list))
	out := make(S, 0, len(list))

	for _, elem := range list {
		if _, dup := seen[elem]; !dup {
			seen[elem] = struct{}{}
			out = append(out, elem)
		}
	}

	return out
}

// PrefixEach prepends prefix to every element of list, e.g. PrefixEach("-I", ["a", "b"]) returns ["-Ia", "-Ib"].
func PrefixEach(prefix string, list []string) []string {
	out := make([]string, len(list))
	for i, elem := range list {
		out[i] = prefix + elem
	}

	return out
}
