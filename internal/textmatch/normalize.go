package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks builds a transformer that removes combining diacritical
// marks after canonical decomposition. Transformers carry state, so a
// fresh chain is built per call rather than shared.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeLoose canonicalizes free text for comparison: Unicode
// decomposition, combining-mark removal, lowercasing and trimming.
// It is idempotent and total; any input yields a defined output.
func NormalizeLoose(s string) string {
	folded, _, err := transform.String(stripMarks(), s)
	if err != nil {
		// A malformed rune sequence falls back to the raw input;
		// lowercasing and trimming still apply.
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// NormalizeSquashed applies NormalizeLoose and then removes every
// character outside [a-z0-9], so "Wow 500", "wow-500" and "WOW_500"
// all squash to "wow500".
func NormalizeSquashed(s string) string {
	loose := NormalizeLoose(s)
	var sb strings.Builder
	sb.Grow(len(loose))
	for _, r := range loose {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Slugify converts arbitrary text into a hyphen-delimited, lowercase,
// ASCII-only token used as a tag identifier: runs of characters outside
// [a-z0-9] collapse to a single hyphen, with no leading or trailing
// hyphen.
func Slugify(s string) string {
	loose := NormalizeLoose(s)
	var sb strings.Builder
	sb.Grow(len(loose))
	pendingHyphen := false
	for _, r := range loose {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return sb.String()
}

// LabelFromSlug inverts a tag slug into a human-readable label by
// title-casing each hyphen-delimited token: "contemporary-art" becomes
// "Contemporary Art".
func LabelFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}
