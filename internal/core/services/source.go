package services

import (
	"context"
	"fmt"

	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
	"github.com/galeria-labs/galeria/internal/logger"
	"github.com/galeria-labs/galeria/internal/textmatch"
)

// defaultFetchLimit bounds a per-source slice when no explicit cap is
// configured. Record volumes are small (hundreds to low thousands), so
// a low-thousands cap covers the whole collection in practice.
const defaultFetchLimit = 2000

// PoolFunc extracts the fragment pool a query is tested against.
type PoolFunc func(domain.Record) []string

// ProjectFunc turns a raw record into a result item. Returning false
// drops the record (e.g. a row with no usable identity).
type ProjectFunc func(domain.Record) (domain.ResultItem, bool)

// Source is an independently queryable record collection plus a
// projection to the common result shape. It is the unit of fan-out in
// aggregation: sources share no state and are queried concurrently.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Search returns the projected records matching the query.
	Search(ctx context.Context, query string) ([]domain.ResultItem, error)
}

// CollectionSource matches a query directly against one collection:
// fetch a bounded slice, test each record's fragment pool, project the
// survivors.
type CollectionSource struct {
	name       string
	store      driven.RecordStore
	collection string
	fetchLimit int
	tagMatch   bool
	pool       PoolFunc
	project    ProjectFunc
}

// CollectionSourceConfig configures a CollectionSource.
type CollectionSourceConfig struct {
	// Name identifies the source in logs.
	Name string

	// Collection is the backing collection name.
	Collection string

	// FetchLimit caps the fetched slice. Zero uses defaultFetchLimit.
	FetchLimit int

	// TagMatch switches the matcher to bidirectional tag-slug
	// containment instead of forward-only free-text containment.
	TagMatch bool

	// Pool extracts the fragment pool. Nil uses the full schema-
	// agnostic extraction over the whole record.
	Pool PoolFunc

	// Project turns a matching record into a result item. Required.
	Project ProjectFunc
}

// NewCollectionSource creates a direct-match source over one collection.
func NewCollectionSource(store driven.RecordStore, cfg CollectionSourceConfig) *CollectionSource {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaultFetchLimit
	}
	if cfg.Pool == nil {
		cfg.Pool = textmatch.CollectText
	}
	return &CollectionSource{
		name:       cfg.Name,
		store:      store,
		collection: cfg.Collection,
		fetchLimit: cfg.FetchLimit,
		tagMatch:   cfg.TagMatch,
		pool:       cfg.Pool,
		project:    cfg.Project,
	}
}

// Name identifies the source in logs.
func (s *CollectionSource) Name() string {
	return s.name
}

// Search fetches a bounded slice and matches each record client-side.
func (s *CollectionSource) Search(ctx context.Context, query string) ([]domain.ResultItem, error) {
	records, err := s.store.FetchSlice(ctx, domain.FetchOptions{
		Collection:    s.collection,
		PublishedOnly: true,
		OrderByRecent: true,
		Limit:         s.fetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.collection, err)
	}

	var items []domain.ResultItem
	for _, rec := range records {
		if !s.matches(rec, query) {
			continue
		}
		if item, ok := s.project(rec); ok {
			items = append(items, item)
		}
	}
	logger.Debug("source %s: %d/%d records matched %q", s.name, len(items), len(records), query)
	return items, nil
}

// ListRecent returns the most recently updated records without any
// matching. This is the default-listing path for empty queries.
func (s *CollectionSource) ListRecent(ctx context.Context, limit int) ([]domain.ResultItem, error) {
	records, err := s.store.FetchSlice(ctx, domain.FetchOptions{
		Collection:    s.collection,
		PublishedOnly: true,
		OrderByRecent: true,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.collection, err)
	}

	var items []domain.ResultItem
	for _, rec := range records {
		if item, ok := s.project(rec); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *CollectionSource) matches(rec domain.Record, query string) bool {
	pool := s.pool(rec)
	if s.tagMatch {
		return textmatch.MatchesTag(pool, query)
	}
	return textmatch.Matches(pool, query)
}

// RelatedSource resolves a query through a related collection: match
// the related records first (e.g. works whose tags, title or medium
// match), collect the distinct foreign keys, then fetch the owning
// records by those keys. Used for "find artists via their works" style
// lookups.
type RelatedSource struct {
	name              string
	store             driven.RecordStore
	relatedCollection string
	ownerCollection   string
	foreignKey        string
	ownerKey          string
	fetchLimit        int
	pool              PoolFunc
	project           ProjectFunc
}

// RelatedSourceConfig configures a RelatedSource.
type RelatedSourceConfig struct {
	// Name identifies the source in logs.
	Name string

	// RelatedCollection holds the records the query is matched against.
	RelatedCollection string

	// OwnerCollection holds the records that are returned.
	OwnerCollection string

	// ForeignKey is the field on a related record referring to its owner.
	ForeignKey string

	// OwnerKey is the identity field on an owner record. Empty means "id".
	OwnerKey string

	// FetchLimit caps each fetched slice. Zero uses defaultFetchLimit.
	FetchLimit int

	// Pool extracts the fragment pool from a related record. Nil uses
	// full extraction.
	Pool PoolFunc

	// Project turns an owning record into a result item. Required.
	Project ProjectFunc
}

// NewRelatedSource creates a two-step source.
func NewRelatedSource(store driven.RecordStore, cfg RelatedSourceConfig) *RelatedSource {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaultFetchLimit
	}
	if cfg.Pool == nil {
		cfg.Pool = textmatch.CollectText
	}
	if cfg.OwnerKey == "" {
		cfg.OwnerKey = "id"
	}
	return &RelatedSource{
		name:              cfg.Name,
		store:             store,
		relatedCollection: cfg.RelatedCollection,
		ownerCollection:   cfg.OwnerCollection,
		foreignKey:        cfg.ForeignKey,
		ownerKey:          cfg.OwnerKey,
		fetchLimit:        cfg.FetchLimit,
		pool:              cfg.Pool,
		project:           cfg.Project,
	}
}

// Name identifies the source in logs.
func (s *RelatedSource) Name() string {
	return s.name
}

// Search runs the two-step lookup.
func (s *RelatedSource) Search(ctx context.Context, query string) ([]domain.ResultItem, error) {
	related, err := s.store.FetchSlice(ctx, domain.FetchOptions{
		Collection:    s.relatedCollection,
		PublishedOnly: true,
		OrderByRecent: true,
		Limit:         s.fetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.relatedCollection, err)
	}

	ownerIDs := map[string]struct{}{}
	for _, rec := range related {
		if !textmatch.Matches(s.pool(rec), query) {
			continue
		}
		if fk := rec.GetString(s.foreignKey); fk != "" {
			ownerIDs[fk] = struct{}{}
		}
	}
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	logger.Debug("source %s: %d distinct owners via %s", s.name, len(ownerIDs), s.relatedCollection)

	// The store only exposes bounded slices, so owners are fetched as
	// a slice and filtered by key client-side.
	owners, err := s.store.FetchSlice(ctx, domain.FetchOptions{
		Collection:    s.ownerCollection,
		PublishedOnly: true,
		OrderByRecent: true,
		Limit:         s.fetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.ownerCollection, err)
	}

	var items []domain.ResultItem
	for _, rec := range owners {
		if _, ok := ownerIDs[rec.GetString(s.ownerKey)]; !ok {
			continue
		}
		if item, ok := s.project(rec); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
