package textmatch

import "strings"

// Matches reports whether any fragment in the pool matches the query
// under the three-tier containment policy used for free-text search:
//
//  1. loose forms are equal, or
//  2. the loose fragment contains the loose query, or
//  3. the squashed fragment contains the squashed query.
//
// An empty query (after loose normalization) never matches; callers
// route empty queries to a default listing instead.
func Matches(pool []string, query string) bool {
	q := NormalizeLoose(query)
	if q == "" {
		return false
	}
	qs := NormalizeSquashed(query)

	for _, f := range pool {
		fl := NormalizeLoose(f)
		if fl == q || strings.Contains(fl, q) {
			return true
		}
		// The squashed tier bridges "wow 500" vs "wow-500" vs "wow500".
		// Skipped when the query squashes to nothing, since every
		// string contains the empty string.
		if qs != "" && strings.Contains(NormalizeSquashed(f), qs) {
			return true
		}
	}
	return false
}

// MatchesTag reports whether any fragment matches a tag slug. On top
// of the forward tiers of Matches it also checks reverse containment
// (query contains fragment): tag slugs are short canonical tokens, and
// a stored tag may be either a superstring of the slug
// ("contemporary-art-wien" vs "wien") or a looser free-text spelling
// of it ("Contemporary Art" vs "contemporary-art").
func MatchesTag(pool []string, slug string) bool {
	q := NormalizeLoose(slug)
	if q == "" {
		return false
	}
	qs := NormalizeSquashed(slug)

	for _, f := range pool {
		fl := NormalizeLoose(f)
		if fl == "" {
			continue
		}
		if fl == q || strings.Contains(fl, q) || strings.Contains(q, fl) {
			return true
		}
		fs := NormalizeSquashed(f)
		if qs != "" && fs != "" &&
			(strings.Contains(fs, qs) || strings.Contains(qs, fs)) {
			return true
		}
	}
	return false
}
