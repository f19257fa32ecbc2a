package search

import "strings"

// intentEntry maps a natural-language goal phrase to product keywords.
type intentEntry struct {
	phrase   string
	keywords []string
}

// intentTable is the rule-based fallback layer between semantic search and
// plain substring matching. Order matters: the first matching entry wins.
var intentTable = []intentEntry{
	{"build muscle", []string{"whey", "protein", "isolate", "casein"}},
	{"gain weight", []string{"mass", "gainer", "bulking"}},
	{"lose fat", []string{"fat burner", "cutting", "lean", "thermogenic"}},
	{"increase energy", []string{"pre-workout", "caffeine", "booster"}},
	{"recovery", []string{"bcaa", "amino", "glutamine", "electrolyte"}},
	{"tired", []string{"pre-workout", "booster", "caffeine"}},
	{"focus", []string{"nootropic", "pre-workout", "energy"}},
}

// matchIntent returns the filter keyword for the query: the first keyword of
// the first entry whose phrase or any keyword occurs in the lowercased query.
func matchIntent(queryLower string) (string, bool) {
	for _, entry := range intentTable {
		if strings.Contains(queryLower, entry.phrase) {
			return entry.keywords[0], true
		}
		for _, kw := range entry.keywords {
			if strings.Contains(queryLower, kw) {
				return entry.keywords[0], true
			}
		}
	}
	return "", false
}
