package driving

import (
	"context"

	"github.com/galeria-labs/galeria/internal/core/domain"
)

// DiscoveryService serves the site's discovery surfaces: the site-wide
// search, the artist directory and tag pages.
//
// None of the methods return an error. Discovery pages degrade to fewer
// results when part of the backend fails; absence of results is the
// only caller-visible failure signal.
type DiscoveryService interface {
	// Search runs a free-text query across all configured sources.
	// An empty query yields the default listing (most recently
	// updated items) instead of matching.
	Search(ctx context.Context, query string) []domain.ResultItem

	// SearchByTag returns the items carrying a tag, identified by its
	// slug, using bidirectional slug containment.
	SearchByTag(ctx context.Context, slug string) []domain.ResultItem
}

// ArtistDirectory serves the artist directory page: the same
// aggregation as Search, scoped to the artist entity with multiple
// underlying lookups (by name, by profile metadata, by related work
// and news metadata).
type ArtistDirectory interface {
	// SearchArtists filters the directory by a free-text query.
	// An empty query lists the most recently updated artists.
	SearchArtists(ctx context.Context, query string) []domain.ResultItem
}
