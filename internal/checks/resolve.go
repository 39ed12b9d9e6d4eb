package checks

// Filter selects which catalog entries are active.
type Filter struct {
	IgnoredIDs         []string
	DisabledCategories []string
	// Threshold drops checks below it; nil keeps every risk level.
	Threshold *RiskLevel
}

// Resolve returns the catalog entries that survive f, in catalog order.
// References to ids or categories the catalog does not know are ignored.
func Resolve(c *Catalog, f Filter) []Check {
	ignored := toSet(f.IgnoredIDs)
	disabled := toSet(f.DisabledCategories)

	active := make([]Check, 0, len(c.checks))
	for _, ch := range c.checks {
		if ignored[ch.ID] || disabled[ch.Category] {
			continue
		}
		if f.Threshold != nil && ch.Risk < *f.Threshold {
			continue
		}
		active = append(active, ch)
	}
	return active
}

// Unknown lists the ids and categories in f that c does not contain.
func Unknown(c *Catalog, f Filter) (ids, categories []string) {
	for _, id := range f.IgnoredIDs {
		if _, ok := c.byID[id]; !ok {
			ids = append(ids, id)
		}
	}
	for _, cat := range f.DisabledCategories {
		if !c.HasCategory(cat) {
			categories = append(categories, cat)
		}
	}
	return ids, categories
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
