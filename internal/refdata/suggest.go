package refdata

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// Suggest returns up to three system or constellation names close to name.
func (s *Store) Suggest(name string) []string {
	query := normalize(strings.ReplaceAll(name, "_", " "))
	if query == "" {
		return nil
	}
	type candidate struct {
		name string
		dist int
	}
	seen := map[string]bool{}
	var found []candidate
	consider := func(display string) {
		key := normalize(display)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		dist := levenshtein.ComputeDistance(query, key)
		if dist > levenshteinLimit(len(key)) {
			return
		}
		found = append(found, candidate{name: display, dist: dist})
	}
	for _, c := range s.t.Constellations {
		consider(c.EnName)
	}
	for _, sys := range s.t.Systems {
		consider(sys.EnName)
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].name < found[j].name
	})
	if len(found) > maxSuggestions {
		found = found[:maxSuggestions]
	}
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.name
	}
	return out
}

// SuggestItem returns item names close to name.
func (s *Store) SuggestItem(name string) []string {
	query := normalize(name)
	if query == "" {
		return nil
	}
	best, bestDist := "", -1
	for _, it := range s.t.Items {
		key := normalize(it.EnName)
		if key == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(query, key)
		if dist > levenshteinLimit(len(key)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && it.EnName < best) {
			best, bestDist = it.EnName, dist
		}
	}
	if best == "" {
		return nil
	}
	return []string{best}
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
