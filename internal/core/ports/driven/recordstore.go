package driven

import (
	"context"

	"github.com/galeria-labs/galeria/internal/core/domain"
)

// RecordStore provides bounded reads against named record collections.
// It is the only capability the discovery core consumes. The store does
// not expose a query language: beyond the published-only narrowing hint
// and most-recent ordering, all filtering is applied client-side after
// the slice is fetched.
type RecordStore interface {
	// FetchSlice returns at most opts.Limit records from the named
	// collection. Implementations must honor ctx cancellation so a
	// slow backend can be abandoned per source.
	FetchSlice(ctx context.Context, opts domain.FetchOptions) ([]domain.Record, error)
}

// RecordWriter is the optional write side, needed only by the seed
// command. Production discovery paths never write.
type RecordWriter interface {
	// PutRecord stores a record under the given collection and id,
	// replacing any existing record with the same id.
	PutRecord(ctx context.Context, collection, id string, record domain.Record) error
}
