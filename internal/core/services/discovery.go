package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driving"
	"github.com/galeria-labs/galeria/internal/logger"
)

// Ensure Discovery implements the driving ports.
var _ driving.DiscoveryService = (*Discovery)(nil)

const (
	// defaultOutputCap bounds a discovery result list when no explicit
	// cap is configured.
	defaultOutputCap = 50

	// defaultSourceTimeout bounds one source's fetch within a fan-out.
	// A source that exceeds it is treated as failed; its siblings are
	// unaffected.
	defaultSourceTimeout = 5 * time.Second
)

// Discovery aggregates query results across independent sources.
// All lookups are constructed per call and no state is shared between
// invocations; a Discovery value is safe for concurrent use.
type Discovery struct {
	sources       []Source
	tagSources    []Source
	defaultSource *CollectionSource
	outputCap     int
	sourceTimeout time.Duration
}

// DiscoveryConfig configures a Discovery aggregator.
type DiscoveryConfig struct {
	// Sources are fanned out to for free-text queries.
	Sources []Source

	// TagSources are fanned out to for tag-slug queries. Nil reuses
	// Sources.
	TagSources []Source

	// DefaultSource serves the default listing for empty queries.
	DefaultSource *CollectionSource

	// OutputCap truncates the merged result list. Zero uses
	// defaultOutputCap.
	OutputCap int

	// SourceTimeout bounds each source's fetch. Zero uses
	// defaultSourceTimeout.
	SourceTimeout time.Duration
}

// NewDiscovery creates a Discovery aggregator.
func NewDiscovery(cfg DiscoveryConfig) *Discovery {
	if cfg.OutputCap <= 0 {
		cfg.OutputCap = defaultOutputCap
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	tagSources := cfg.TagSources
	if tagSources == nil {
		tagSources = cfg.Sources
	}
	return &Discovery{
		sources:       cfg.Sources,
		tagSources:    tagSources,
		defaultSource: cfg.DefaultSource,
		outputCap:     cfg.OutputCap,
		sourceTimeout: cfg.SourceTimeout,
	}
}

// Search runs a free-text query across all configured sources. An
// empty query bypasses matching entirely and returns the default
// listing. Search never fails: a failing source contributes an empty
// set and the merged remainder is returned.
func (d *Discovery) Search(ctx context.Context, query string) []domain.ResultItem {
	if isEmptyQuery(query) {
		return d.defaultListing(ctx)
	}
	branches := d.fanOut(ctx, d.sources, query)
	return d.merge(branches)
}

// SearchByTag returns the items carrying a tag, identified by its slug.
func (d *Discovery) SearchByTag(ctx context.Context, slug string) []domain.ResultItem {
	if isEmptyQuery(slug) {
		return nil
	}
	branches := d.fanOut(ctx, d.tagSources, slug)
	return d.merge(branches)
}

func isEmptyQuery(query string) bool {
	return strings.TrimSpace(query) == ""
}

func (d *Discovery) defaultListing(ctx context.Context) []domain.ResultItem {
	if d.defaultSource == nil {
		return nil
	}
	items, err := d.defaultSource.ListRecent(ctx, d.outputCap)
	if err != nil {
		logger.Warn("discovery: default listing from %s failed: %v", d.defaultSource.Name(), err)
		return nil
	}
	return items
}

// fanOut queries every source concurrently and joins all branches.
// Each branch gets its own timeout; a branch error is logged and its
// contribution dropped. The returned slice is indexed by source order,
// so completion order cannot influence the merge.
func (d *Discovery) fanOut(ctx context.Context, sources []Source, query string) [][]domain.ResultItem {
	branches := make([][]domain.ResultItem, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			branchCtx, cancel := context.WithTimeout(ctx, d.sourceTimeout)
			defer cancel()

			items, err := src.Search(branchCtx, query)
			if err != nil {
				logger.Warn("discovery: source %s failed: %v", src.Name(), err)
				return
			}
			branches[i] = items
		}(i, src)
	}
	wg.Wait()

	return branches
}

// merge flattens the branches in source order, de-duplicates by
// identity key (first occurrence wins) and again by presentation key,
// sorts by timestamp descending with insertion order breaking ties,
// and truncates to the output cap.
func (d *Discovery) merge(branches [][]domain.ResultItem) []domain.ResultItem {
	seenID := map[string]struct{}{}
	seenPresentation := map[string]struct{}{}

	var merged []domain.ResultItem
	for _, branch := range branches {
		for _, item := range branch {
			if item.ID != "" {
				if _, ok := seenID[item.ID]; ok {
					continue
				}
				seenID[item.ID] = struct{}{}
			}
			key := item.PresentationKey()
			if _, ok := seenPresentation[key]; ok {
				continue
			}
			seenPresentation[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	// Stable sort: equal timestamps keep first-occurrence order, so
	// output is a pure function of the merged items. The zero time
	// sorts last.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})

	if len(merged) > d.outputCap {
		merged = merged[:d.outputCap]
	}
	return merged
}

// Directory adapts a Discovery aggregator to the artist directory port.
type Directory struct {
	agg *Discovery
}

var _ driving.ArtistDirectory = (*Directory)(nil)

// NewDirectory wraps an artist-scoped Discovery aggregator.
func NewDirectory(agg *Discovery) *Directory {
	return &Directory{agg: agg}
}

// SearchArtists filters the directory by a free-text query.
func (d *Directory) SearchArtists(ctx context.Context, query string) []domain.ResultItem {
	return d.agg.Search(ctx, query)
}
