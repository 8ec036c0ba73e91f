package common

import (
	"sort"
	"strings"
)

// PairKey builds the canonical participant key for a direct conversation or
// call between two users. The key is order-insensitive.
func PairKey(a, b string) string {
	return SetKey([]string{a, b})
}

// SetKey builds the canonical participant key for an arbitrary participant
// set. Duplicates are collapsed so that equal sets always map to equal keys.
func SetKey(ids []string) string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return strings.Join(unique, ":")
}
