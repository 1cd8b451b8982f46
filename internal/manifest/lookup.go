// internal/manifest/lookup.go
package manifest

import "github.com/solidwrite/pseo/internal/models"

// Find returns the route with the given slug by linear scan.
func Find(routes []models.Route, slug string) (models.Route, bool) {
	for _, r := range routes {
		if r.Slug == slug {
			return r, true
		}
	}
	return models.Route{}, false
}

// Index maps slug to position. For duplicated slugs the first position wins.
func Index(routes []models.Route) map[string]int {
	idx := make(map[string]int, len(routes))
	for i, r := range routes {
		if _, seen := idx[r.Slug]; !seen {
			idx[r.Slug] = i
		}
	}
	return idx
}

// DuplicateSlugs reports every slug emitted more than once, with the
// playbooks that produced it. Slug templates are meant to make this
// impossible; a non-empty result means two templates overlap.
func DuplicateSlugs(routes []models.Route) map[string][]models.Playbook {
	owners := make(map[string][]models.Playbook)
	for _, r := range routes {
		owners[r.Slug] = append(owners[r.Slug], r.Playbook)
	}
	for slug, playbooks := range owners {
		if len(playbooks) < 2 {
			delete(owners, slug)
		}
	}
	return owners
}

// FilterByPlaybook returns routes of one playbook, keeping manifest order.
func FilterByPlaybook(routes []models.Route, playbook models.Playbook) []models.Route {
	var out []models.Route
	for _, r := range routes {
		if r.Playbook == playbook {
			out = append(out, r)
		}
	}
	return out
}
