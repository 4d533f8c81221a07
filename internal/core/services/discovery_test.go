package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galeria-labs/galeria/internal/core/domain"
)

// --- Mock implementations ---

// mockRecordStore implements driven.RecordStore for testing.
type mockRecordStore struct {
	collections map[string][]domain.Record
	errs        map[string]error
	delays      map[string]time.Duration
}

func (m *mockRecordStore) FetchSlice(ctx context.Context, opts domain.FetchOptions) ([]domain.Record, error) {
	if d, ok := m.delays[opts.Collection]; ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
	}
	if err := m.errs[opts.Collection]; err != nil {
		return nil, err
	}
	recs := m.collections[opts.Collection]
	if opts.Limit > 0 && len(recs) > opts.Limit {
		recs = recs[:opts.Limit]
	}
	return recs, nil
}

// --- Record fixtures ---

func artistRecord(id, name, updated string) domain.Record {
	fields := []domain.Field{
		{Key: "id", Value: domain.String(id)},
		{Key: "name", Value: domain.String(name)},
	}
	if updated != "" {
		fields = append(fields, domain.Field{Key: "updated_at", Value: domain.String(updated)})
	}
	return domain.Map(fields...)
}

func workRecord(id, title, artistID, updated string, tags ...string) domain.Record {
	tagList := make([]domain.Record, len(tags))
	for i, tag := range tags {
		tagList[i] = domain.String(tag)
	}
	fields := []domain.Field{
		{Key: "id", Value: domain.String(id)},
		{Key: "title", Value: domain.String(title)},
		{Key: "artist_id", Value: domain.String(artistID)},
		{Key: "tags", Value: domain.List(tagList...)},
	}
	if updated != "" {
		fields = append(fields, domain.Field{Key: "updated_at", Value: domain.String(updated)})
	}
	return domain.Map(fields...)
}

func artistSource(store *mockRecordStore, name string) *CollectionSource {
	return NewCollectionSource(store, CollectionSourceConfig{
		Name:       name,
		Collection: domain.CollectionArtists,
		Project:    ProjectArtist,
	})
}

// --- Tests ---

func TestDiscovery_EmptyQueryReturnsDefaultListing(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: {
			artistRecord("a1", "Emilie", "2024-03-01T00:00:00Z"),
			artistRecord("a2", "Noor", "2024-02-01T00:00:00Z"),
		},
	}}

	d := NewDiscovery(DiscoveryConfig{
		Sources:       []Source{artistSource(store, "artists")},
		DefaultSource: artistSource(store, "artists-recent"),
	})

	got := d.Search(context.Background(), "")
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "a2", got[1].ID)

	// Whitespace-only queries take the same path.
	assert.Equal(t, got, d.Search(context.Background(), "   "))
}

func TestDiscovery_NoDefaultSourceYieldsEmptyListing(t *testing.T) {
	d := NewDiscovery(DiscoveryConfig{})
	assert.Empty(t, d.Search(context.Background(), ""))
}

func TestDiscovery_MatchingQuery(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: {
			artistRecord("a1", "Emilie Höfer", "2024-03-01T00:00:00Z"),
			artistRecord("a2", "Noor Al-Rashid", "2024-02-01T00:00:00Z"),
		},
	}}

	d := NewDiscovery(DiscoveryConfig{
		Sources: []Source{artistSource(store, "artists")},
	})

	got := d.Search(context.Background(), "hofer")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "Emilie Höfer", got[0].DisplayName)
	assert.Equal(t, "/artists/emilie-hofer", got[0].Href)

	assert.Empty(t, d.Search(context.Background(), "nobody"))
}

func TestDiscovery_DeduplicatesByIdentityKeyFirstSourceWins(t *testing.T) {
	// Two sources return the same id with different display metadata;
	// the first-queried source's projection is kept.
	store := &mockRecordStore{collections: map[string][]domain.Record{
		"first":  {artistRecord("a1", "Emilie First", "2024-03-01T00:00:00Z")},
		"second": {artistRecord("a1", "Emilie Second", "2024-03-01T00:00:00Z")},
	}}

	first := NewCollectionSource(store, CollectionSourceConfig{
		Name: "first", Collection: "first", Project: ProjectArtist,
	})
	second := NewCollectionSource(store, CollectionSourceConfig{
		Name: "second", Collection: "second", Project: ProjectArtist,
	})

	d := NewDiscovery(DiscoveryConfig{Sources: []Source{first, second}})

	got := d.Search(context.Background(), "emilie")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "Emilie First", got[0].DisplayName)
}

func TestDiscovery_PresentationDeduplication(t *testing.T) {
	// Distinct ids but identical (display name, href): one entry.
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionNews: {
			domain.Map(
				domain.Field{Key: "id", Value: domain.String("n1")},
				domain.Field{Key: "title", Value: domain.String("Opening Night")},
				domain.Field{Key: "url", Value: domain.String("https://example.org/on")},
			),
			domain.Map(
				domain.Field{Key: "id", Value: domain.String("n2")},
				domain.Field{Key: "title", Value: domain.String("Opening Night")},
				domain.Field{Key: "url", Value: domain.String("https://example.org/on")},
			),
		},
	}}

	d := NewDiscovery(DiscoveryConfig{
		Sources: []Source{NewCollectionSource(store, CollectionSourceConfig{
			Name: "news", Collection: domain.CollectionNews, Project: ProjectNews,
		})},
	})

	got := d.Search(context.Background(), "opening")
	require.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)
}

func TestDiscovery_ResilientToFailingSource(t *testing.T) {
	store := &mockRecordStore{
		collections: map[string][]domain.Record{
			domain.CollectionArtists: {artistRecord("a1", "Emilie", "2024-03-01T00:00:00Z")},
		},
		errs: map[string]error{
			domain.CollectionWorks: errors.New("backend unreachable"),
		},
	}

	working := artistSource(store, "artists")
	failing := NewCollectionSource(store, CollectionSourceConfig{
		Name: "works", Collection: domain.CollectionWorks, Project: ProjectWork,
	})

	d := NewDiscovery(DiscoveryConfig{Sources: []Source{failing, working}})

	got := d.Search(context.Background(), "emilie")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestDiscovery_SlowSourceTimesOutAlone(t *testing.T) {
	store := &mockRecordStore{
		collections: map[string][]domain.Record{
			domain.CollectionArtists: {artistRecord("a1", "Emilie", "2024-03-01T00:00:00Z")},
			domain.CollectionWorks:   {workRecord("w1", "Emilie Study", "a1", "2024-01-01T00:00:00Z")},
		},
		delays: map[string]time.Duration{
			domain.CollectionWorks: 200 * time.Millisecond,
		},
	}

	d := NewDiscovery(DiscoveryConfig{
		Sources: []Source{
			NewCollectionSource(store, CollectionSourceConfig{
				Name: "works", Collection: domain.CollectionWorks, Project: ProjectWork,
			}),
			artistSource(store, "artists"),
		},
		SourceTimeout: 20 * time.Millisecond,
	})

	got := d.Search(context.Background(), "emilie")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestDiscovery_RanksByTimestampDescending(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: {
			artistRecord("old", "Artist Alpha", "2022-01-01T00:00:00Z"),
			artistRecord("new", "Artist Beta", "2024-01-01T00:00:00Z"),
			artistRecord("mid", "Artist Gamma", "2023-01-01T00:00:00Z"),
		},
	}}

	d := NewDiscovery(DiscoveryConfig{Sources: []Source{artistSource(store, "artists")}})

	got := d.Search(context.Background(), "artist")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDiscovery_MissingTimestampSortsLast(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: {
			artistRecord("undated", "Artist Alpha", ""),
			artistRecord("dated", "Artist Beta", "2024-01-01T00:00:00Z"),
		},
	}}

	d := NewDiscovery(DiscoveryConfig{Sources: []Source{artistSource(store, "artists")}})

	got := d.Search(context.Background(), "artist")
	require.Len(t, got, 2)
	assert.Equal(t, "dated", got[0].ID)
	assert.Equal(t, "undated", got[1].ID)
}

func TestDiscovery_EqualTimestampsKeepSourceOrder(t *testing.T) {
	ts := "2024-01-01T00:00:00Z"
	store := &mockRecordStore{collections: map[string][]domain.Record{
		"first":  {artistRecord("a1", "Artist Alpha", ts)},
		"second": {artistRecord("a2", "Artist Beta", ts)},
	}}

	d := NewDiscovery(DiscoveryConfig{Sources: []Source{
		NewCollectionSource(store, CollectionSourceConfig{
			Name: "first", Collection: "first", Project: ProjectArtist,
		}),
		NewCollectionSource(store, CollectionSourceConfig{
			Name: "second", Collection: "second", Project: ProjectArtist,
		}),
	}})

	// Completion order of the fan-out must not leak into the output:
	// ties resolve by source configuration order on every run.
	for i := 0; i < 10; i++ {
		got := d.Search(context.Background(), "artist")
		require.Len(t, got, 2)
		assert.Equal(t, "a1", got[0].ID)
		assert.Equal(t, "a2", got[1].ID)
	}
}

func TestDiscovery_OutputCapTruncates(t *testing.T) {
	var recs []domain.Record
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5"} {
		recs = append(recs, artistRecord(id, "Artist "+id, "2024-01-01T00:00:0"+id[1:]+"Z"))
	}
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: recs,
	}}

	d := NewDiscovery(DiscoveryConfig{
		Sources:   []Source{artistSource(store, "artists")},
		OutputCap: 3,
	})

	got := d.Search(context.Background(), "artist")
	assert.Len(t, got, 3)
	// Most recent first: a5 has the latest second.
	assert.Equal(t, "a5", got[0].ID)
}

func TestDiscovery_SearchByTag(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionWorks: {
			workRecord("w1", "Untitled", "a1", "2024-01-01T00:00:00Z", "Contemporary Art"),
			workRecord("w2", "Still Life", "a1", "2024-01-02T00:00:00Z", "sculpture"),
			workRecord("w3", "Vienna Nights", "a2", "2024-01-03T00:00:00Z", "contemporary-art-wien"),
		},
	}}

	tagWorks := NewCollectionSource(store, CollectionSourceConfig{
		Name:       "tag-works",
		Collection: domain.CollectionWorks,
		TagMatch:   true,
		Pool:       TagPool,
		Project:    ProjectWork,
	})

	d := NewDiscovery(DiscoveryConfig{TagSources: []Source{tagWorks}})

	got := d.SearchByTag(context.Background(), "contemporary-art")
	require.Len(t, got, 2)
	// w3 is newer.
	assert.Equal(t, "w3", got[0].ID)
	assert.Equal(t, "w1", got[1].ID)

	// Bidirectional: short canonical slug matches a longer stored tag.
	got = d.SearchByTag(context.Background(), "wien")
	require.Len(t, got, 1)
	assert.Equal(t, "w3", got[0].ID)

	assert.Empty(t, d.SearchByTag(context.Background(), ""))
}

func TestRelatedSource_TwoStepLookup(t *testing.T) {
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: {
			artistRecord("a1", "Emilie", "2024-03-01T00:00:00Z"),
			artistRecord("a2", "Noor", "2024-02-01T00:00:00Z"),
		},
		domain.CollectionWorks: {
			workRecord("w1", "Harbour Series", "a1", "2024-01-01T00:00:00Z", "seascape"),
			workRecord("w2", "Dune Study", "a2", "2024-01-02T00:00:00Z", "landscape"),
			workRecord("w3", "Harbour II", "a1", "2024-01-03T00:00:00Z", "seascape"),
		},
	}}

	src := NewRelatedSource(store, RelatedSourceConfig{
		Name:              "artists-by-works",
		RelatedCollection: domain.CollectionWorks,
		OwnerCollection:   domain.CollectionArtists,
		ForeignKey:        "artist_id",
		Project:           ProjectArtist,
	})

	// Two matching works share one owner: one artist comes back.
	items, err := src.Search(context.Background(), "harbour")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)

	// No matching related records short-circuits without an owner fetch.
	items, err = src.Search(context.Background(), "fresco")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRelatedSource_FetchErrorPropagates(t *testing.T) {
	store := &mockRecordStore{
		errs: map[string]error{domain.CollectionWorks: errors.New("boom")},
	}
	src := NewRelatedSource(store, RelatedSourceConfig{
		Name:              "artists-by-works",
		RelatedCollection: domain.CollectionWorks,
		OwnerCollection:   domain.CollectionArtists,
		ForeignKey:        "artist_id",
		Project:           ProjectArtist,
	})

	_, err := src.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestCollectionSource_FetchLimitApplied(t *testing.T) {
	var recs []domain.Record
	for _, id := range []string{"a1", "a2", "a3"} {
		recs = append(recs, artistRecord(id, "Artist", "2024-01-01T00:00:00Z"))
	}
	store := &mockRecordStore{collections: map[string][]domain.Record{
		domain.CollectionArtists: recs,
	}}

	src := NewCollectionSource(store, CollectionSourceConfig{
		Name:       "artists",
		Collection: domain.CollectionArtists,
		FetchLimit: 2,
		Project:    ProjectArtist,
	})

	items, err := src.Search(context.Background(), "artist")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
