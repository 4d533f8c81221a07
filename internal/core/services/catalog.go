package services

import (
	"time"

	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
	"github.com/galeria-labs/galeria/internal/textmatch"
)

// CatalogConfig carries the per-call-site tuning knobs for the site's
// standard source sets.
type CatalogConfig struct {
	// PerSourceLimit caps each source's fetched slice.
	PerSourceLimit int

	// OutputCap truncates the merged result list.
	OutputCap int

	// SourceTimeout bounds each source's fetch.
	SourceTimeout time.Duration
}

// NewSiteDiscovery builds the site-wide search aggregator: artists,
// works, news links and editorial articles, merged into one list. The
// default listing for an empty query is the most recent news.
func NewSiteDiscovery(store driven.RecordStore, cfg CatalogConfig) *Discovery {
	newsSource := NewCollectionSource(store, CollectionSourceConfig{
		Name:       "site-news",
		Collection: domain.CollectionNews,
		FetchLimit: cfg.PerSourceLimit,
		Project:    ProjectNews,
	})

	return NewDiscovery(DiscoveryConfig{
		Sources: []Source{
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "site-artists",
				Collection: domain.CollectionArtists,
				FetchLimit: cfg.PerSourceLimit,
				Project:    ProjectArtist,
			}),
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "site-works",
				Collection: domain.CollectionWorks,
				FetchLimit: cfg.PerSourceLimit,
				Project:    ProjectWork,
			}),
			newsSource,
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "site-articles",
				Collection: domain.CollectionArticles,
				FetchLimit: cfg.PerSourceLimit,
				Project:    ProjectArticle,
			}),
		},
		TagSources: []Source{
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "tag-works",
				Collection: domain.CollectionWorks,
				FetchLimit: cfg.PerSourceLimit,
				TagMatch:   true,
				Pool:       TagPool,
				Project:    ProjectWork,
			}),
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "tag-articles",
				Collection: domain.CollectionArticles,
				FetchLimit: cfg.PerSourceLimit,
				TagMatch:   true,
				Pool:       TagPool,
				Project:    ProjectArticle,
			}),
		},
		DefaultSource: newsSource,
		OutputCap:     cfg.OutputCap,
		SourceTimeout: cfg.SourceTimeout,
	})
}

// NewArtistDirectory builds the artist directory aggregator. Four
// lookups all project to the artist entity: by name, by profile
// metadata, and via the metadata of related works and news items.
func NewArtistDirectory(store driven.RecordStore, cfg CatalogConfig) *Directory {
	agg := NewDiscovery(DiscoveryConfig{
		Sources: []Source{
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "artists-by-name",
				Collection: domain.CollectionArtists,
				FetchLimit: cfg.PerSourceLimit,
				Pool:       NamePool,
				Project:    ProjectArtist,
			}),
			NewCollectionSource(store, CollectionSourceConfig{
				Name:       "artists-by-profile",
				Collection: domain.CollectionArtists,
				FetchLimit: cfg.PerSourceLimit,
				Project:    ProjectArtist,
			}),
			NewRelatedSource(store, RelatedSourceConfig{
				Name:              "artists-by-works",
				RelatedCollection: domain.CollectionWorks,
				OwnerCollection:   domain.CollectionArtists,
				ForeignKey:        "artist_id",
				FetchLimit:        cfg.PerSourceLimit,
				Project:           ProjectArtist,
			}),
			NewRelatedSource(store, RelatedSourceConfig{
				Name:              "artists-by-news",
				RelatedCollection: domain.CollectionNews,
				OwnerCollection:   domain.CollectionArtists,
				ForeignKey:        "artist_id",
				FetchLimit:        cfg.PerSourceLimit,
				Project:           ProjectArtist,
			}),
		},
		DefaultSource: NewCollectionSource(store, CollectionSourceConfig{
			Name:       "artists-recent",
			Collection: domain.CollectionArtists,
			FetchLimit: cfg.PerSourceLimit,
			Project:    ProjectArtist,
		}),
		OutputCap:     cfg.OutputCap,
		SourceTimeout: cfg.SourceTimeout,
	})
	return NewDirectory(agg)
}

// NamePool restricts matching to a record's identifying fields.
func NamePool(rec domain.Record) []string {
	return textmatch.CollectPool(rec.Get("name"), rec.Get("slug"))
}

// TagPool restricts matching to a record's stored tags.
func TagPool(rec domain.Record) []string {
	return textmatch.CollectText(rec.Get("tags"))
}

// ProjectArtist projects an artist record. Records without an id are
// dropped.
func ProjectArtist(rec domain.Record) (domain.ResultItem, bool) {
	id := rec.GetString("id")
	if id == "" {
		return domain.ResultItem{}, false
	}
	name := rec.GetString("name")
	slug := rec.GetString("slug")
	if slug == "" {
		slug = textmatch.Slugify(name)
	}
	return domain.ResultItem{
		ID:          id,
		Kind:        "artist",
		DisplayName: name,
		Href:        "/artists/" + slug,
		UpdatedAt:   recordTime(rec),
	}, true
}

// ProjectWork projects an artwork record.
func ProjectWork(rec domain.Record) (domain.ResultItem, bool) {
	id := rec.GetString("id")
	if id == "" {
		return domain.ResultItem{}, false
	}
	return domain.ResultItem{
		ID:          id,
		Kind:        "work",
		DisplayName: rec.GetString("title"),
		Href:        "/works/" + id,
		UpdatedAt:   recordTime(rec),
	}, true
}

// ProjectNews projects a news-link record. News items link externally
// when a url is stored; otherwise they fall back to the internal page.
func ProjectNews(rec domain.Record) (domain.ResultItem, bool) {
	id := rec.GetString("id")
	if id == "" {
		return domain.ResultItem{}, false
	}
	href := rec.GetString("url")
	if href == "" {
		href = "/news/" + id
	}
	return domain.ResultItem{
		ID:          id,
		Kind:        "news",
		DisplayName: rec.GetString("title"),
		Href:        href,
		UpdatedAt:   recordTime(rec),
	}, true
}

// ProjectArticle projects an editorial article record.
func ProjectArticle(rec domain.Record) (domain.ResultItem, bool) {
	id := rec.GetString("id")
	if id == "" {
		return domain.ResultItem{}, false
	}
	slug := rec.GetString("slug")
	if slug == "" {
		slug = id
	}
	return domain.ResultItem{
		ID:          id,
		Kind:        "article",
		DisplayName: rec.GetString("title"),
		Href:        "/articles/" + slug,
		UpdatedAt:   recordTime(rec),
	}, true
}

// recordTime reads the record's last-modified timestamp, falling back
// to the creation timestamp. Missing timestamps yield the zero time,
// which ranks last.
func recordTime(rec domain.Record) time.Time {
	if t := rec.GetTime("updated_at"); !t.IsZero() {
		return t
	}
	return rec.GetTime("created_at")
}
