package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ceica/ceicacake/internal/database/repository"
)

const pickerLimit = 8

// rankCustomers orders the cached customers by how well they match the query.
// Substring matches come first, then near-misses by edit distance, so a typo
// like "mraia" still surfaces "Maria".
func rankCustomers(customers []repository.CachedCustomer, query string) []repository.CachedCustomer {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if len(customers) > pickerLimit {
			return customers[:pickerLimit]
		}
		return customers
	}

	type scored struct {
		customer repository.CachedCustomer
		score    int
	}
	var ranked []scored
	for _, c := range customers {
		name := strings.ToLower(c.Name)
		var score int
		switch {
		case strings.HasPrefix(name, query):
			score = 0
		case strings.Contains(name, query):
			score = 1
		default:
			dist := levenshtein.ComputeDistance(query, name)
			if dist > len(query)+2 {
				continue
			}
			score = 2 + dist
		}
		ranked = append(ranked, scored{customer: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })

	out := make([]repository.CachedCustomer, 0, pickerLimit)
	for _, r := range ranked {
		out = append(out, r.customer)
		if len(out) == pickerLimit {
			break
		}
	}
	return out
}
