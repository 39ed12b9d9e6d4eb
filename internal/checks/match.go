package checks

import "sort"

// Match tests every check against command and returns the ones whose
// pattern matches anywhere in it, sorted descending by id. Each check
// appears at most once no matter how often its pattern occurs.
func Match(active []Check, command string) []Check {
	var matched []Check
	for _, c := range active {
		if c.Pattern.MatchString(command) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ID > matched[j].ID
	})
	return matched
}

// MatchIDs is Match reduced to the matched ids.
func MatchIDs(active []Check, command string) []string {
	return IDs(Match(active, command))
}
