// Package match implements partial project-name lookup as three ranked
// tiers: exact equality, normalized substring, token overlap. Output
// order and membership are deterministic for a fixed input.
package match

import (
	"strings"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
)

// Match filters candidates against query and returns them ranked by
// relevance. Candidates that match no tier are excluded; the result
// may be empty. Within a tier the candidate order is preserved.
func Match(query string, candidates []domain.ProjectRecord) []domain.ProjectRecord {
	normQuery := normalize(query)
	queryTokens := tokens(query)

	var exact, substring, overlap []domain.ProjectRecord
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		if c.ProjectName == query && !seen[c.ProjectName] {
			seen[c.ProjectName] = true
			exact = append(exact, c)
		}
	}

	if normQuery != "" {
		for _, c := range candidates {
			if seen[c.ProjectName] {
				continue
			}
			if strings.Contains(normalize(c.ProjectName), normQuery) {
				seen[c.ProjectName] = true
				substring = append(substring, c)
			}
		}
	}

	for _, c := range candidates {
		if seen[c.ProjectName] {
			continue
		}
		if sharesToken(queryTokens, tokens(c.ProjectName)) {
			seen[c.ProjectName] = true
			overlap = append(overlap, c)
		}
	}

	out := make([]domain.ProjectRecord, 0, len(exact)+len(substring)+len(overlap))
	out = append(out, exact...)
	out = append(out, substring...)
	out = append(out, overlap...)
	return out
}

// normalize lowercases s and collapses runs of separators (-, _,
// whitespace) into a single space, so "west texas" and
// "West_Texas-Wind" compare on equal footing.
func normalize(s string) string {
	return strings.Join(tokens(s), " ")
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func sharesToken(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		if set[t] {
			return true
		}
	}
	return false
}
