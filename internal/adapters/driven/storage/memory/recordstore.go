// Package memory provides an in-memory implementation of the record
// store ports. It backs tests and acts as the cache layer for the
// file-based store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
)

// Ensure RecordStore implements the interfaces.
var (
	_ driven.RecordStore  = (*RecordStore)(nil)
	_ driven.RecordWriter = (*RecordStore)(nil)
)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu sync.RWMutex
	// collection -> id -> record
	collections map[string]map[string]domain.Record
	// collection -> insertion-ordered ids, for deterministic unordered
	// fetches
	order map[string][]string
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		collections: make(map[string]map[string]domain.Record),
		order:       make(map[string][]string),
	}
}

// PutRecord stores a record, replacing any existing record with the
// same id.
func (s *RecordStore) PutRecord(_ context.Context, collection, id string, record domain.Record) error {
	if collection == "" || id == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.collections[collection]
	if !ok {
		recs = make(map[string]domain.Record)
		s.collections[collection] = recs
	}
	if _, exists := recs[id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	recs[id] = record
	return nil
}

// ReplaceAll atomically swaps the store's entire content. Used by the
// file store on reload.
func (s *RecordStore) ReplaceAll(collections map[string]map[string]domain.Record) {
	order := make(map[string][]string, len(collections))
	for name, recs := range collections {
		ids := make([]string, 0, len(recs))
		for id := range recs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		order[name] = ids
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = collections
	s.order = order
}

// FetchSlice returns a bounded slice from the named collection.
func (s *RecordStore) FetchSlice(_ context.Context, opts domain.FetchOptions) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.collections[opts.Collection]
	if !ok {
		return nil, nil
	}

	out := make([]domain.Record, 0, len(recs))
	for _, id := range s.order[opts.Collection] {
		rec := recs[id]
		if opts.PublishedOnly && !published(rec) {
			continue
		}
		out = append(out, rec)
	}

	if opts.OrderByRecent {
		sort.SliceStable(out, func(i, j int) bool {
			return recordTime(out[i]).After(recordTime(out[j]))
		})
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// published honors the narrowing hint: a record is published unless it
// carries an explicit "published": false.
func published(rec domain.Record) bool {
	v := rec.Get("published")
	if v.Kind() == domain.KindBool {
		return v.AsBool()
	}
	return true
}

// recordTime orders records for OrderByRecent: the update timestamp,
// falling back to the creation timestamp.
func recordTime(rec domain.Record) time.Time {
	if t := rec.GetTime("updated_at"); !t.IsZero() {
		return t
	}
	return rec.GetTime("created_at")
}
