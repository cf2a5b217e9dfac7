package domain

// DefaultBranch picks the branch a download should preselect: a branch
// literally named "main" wins, then "master", then the first branch in the
// listing order. The second return is false when the listing is empty —
// zero branches is a valid, non-error state the caller must handle.
func DefaultBranch(branches []Branch) (string, bool) {
	if len(branches) == 0 {
		return "", false
	}

	for _, preferred := range []string{"main", "master"} {
		for _, b := range branches {
			if b.Name == preferred {
				return b.Name, true
			}
		}
	}

	return branches[0].Name, true
}
