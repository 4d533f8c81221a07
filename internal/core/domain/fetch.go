package domain

// FetchOptions describes a bounded read against a named collection.
// The backend is only required to support a published-only narrowing
// hint and most-recent ordering; all other filtering happens
// client-side after the slice is fetched.
type FetchOptions struct {
	// Collection is the logical collection name, e.g. "artists".
	Collection string

	// PublishedOnly narrows the fetch to published records when the
	// backend supports it. Purely a performance hint: the aggregator
	// still filters client-side.
	PublishedOnly bool

	// OrderByRecent requests most-recently-updated-first ordering.
	OrderByRecent bool

	// Limit caps the slice size. Zero means the adapter's default cap.
	Limit int
}

// Common collection names used by the site's discovery sources.
const (
	CollectionArtists  = "artists"
	CollectionWorks    = "works"
	CollectionNews     = "news"
	CollectionArticles = "articles"
)
