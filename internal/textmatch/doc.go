// Package textmatch implements the shared fuzzy text matching used by
// every discovery surface of the site: tag pages, the artist directory
// and the site-wide search.
//
// It is a zero-infrastructure substitute for a text index. Each record's
// text is flattened into a fragment pool and a query is tested against
// the pool in two normalized forms: a loose form (diacritics stripped,
// lowercased) and a squashed form (non-alphanumerics removed). The
// squashed tier bridges spacing and punctuation inconsistencies between
// free-text fields and slugified query parameters, e.g. "Kunst Messe
// Wien" matches the slug "kunst-messe-wien".
//
// The cost is O(pool size x query length) per record, which is only
// viable because record volumes are small (hundreds to low thousands).
// The historical implementations of this logic had drifted apart across
// call sites; this package is the single authority.
package textmatch
