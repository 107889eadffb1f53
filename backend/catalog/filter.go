package catalog

import (
	"sort"
	"strings"
)

// FilterAll is the sentinel that disables category filtering.
const FilterAll = "all"

// SortByCategory orders courses by their category's rank. The sort is stable,
// so courses sharing a rank keep their catalog order. Categories missing from
// the rank map get -1 and sort before everything known. The input slice is
// not modified.
func SortByCategory(courses []Masterclass, ranks map[string]int) []Masterclass {
	sorted := make([]Masterclass, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i].Category, ranks) < rankOf(sorted[j].Category, ranks)
	})
	return sorted
}

func rankOf(category string, ranks map[string]int) int {
	if r, ok := ranks[category]; ok {
		return r
	}
	return -1
}

// Filter derives the visible subset of courses from the active category
// filter and a free-text query. A course passes when its category matches
// (or the filter is "all") and its title or instructor contains the query
// case-insensitively. Pure function; an empty result is a valid state.
func Filter(courses []Masterclass, activeFilter, searchQuery string) []Masterclass {
	query := strings.ToLower(searchQuery)
	filtered := make([]Masterclass, 0, len(courses))
	for _, course := range courses {
		if activeFilter != FilterAll && course.Category != activeFilter {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(course.Title), query) &&
			!strings.Contains(strings.ToLower(course.Instructor), query) {
			continue
		}
		filtered = append(filtered, course)
	}
	return filtered
}
