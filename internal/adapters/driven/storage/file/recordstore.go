// Package file provides a record store backed by a directory of JSON
// seed files, one per collection: artists.json holds the "artists"
// collection and so on. Each file is a JSON array of record objects.
//
// The store watches the directory with fsnotify and reloads on change,
// which makes it the convenient dev/demo backend: edit a seed file and
// the running server picks it up.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/galeria-labs/galeria/internal/adapters/driven/storage/memory"
	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
	"github.com/galeria-labs/galeria/internal/logger"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore serves records from JSON seed files, cached in memory
// and reloaded on file change.
type RecordStore struct {
	dir     string
	cache   *memory.RecordStore
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewRecordStore loads all *.json files under dir and starts watching
// for changes.
func NewRecordStore(dir string) (*RecordStore, error) {
	s := &RecordStore{
		dir:   dir,
		cache: memory.NewRecordStore(),
		done:  make(chan struct{}),
	}

	if err := s.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Close stops the file watcher.
func (s *RecordStore) Close() error {
	close(s.done)
	return s.watcher.Close()
}

// FetchSlice returns a bounded slice from the cached collections.
func (s *RecordStore) FetchSlice(ctx context.Context, opts domain.FetchOptions) ([]domain.Record, error) {
	return s.cache.FetchSlice(ctx, opts)
}

func (s *RecordStore) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			logger.Info("file store: %s changed, reloading", filepath.Base(event.Name))
			if err := s.reload(); err != nil {
				// Keep serving the previous snapshot on a bad edit.
				logger.Warn("file store: reload failed: %v", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file store: watch error: %v", err)
		}
	}
}

// reload parses every seed file and swaps the cache atomically.
func (s *RecordStore) reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading seed directory: %w", err)
	}

	collections := map[string]map[string]domain.Record{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		collection := strings.TrimSuffix(name, ".json")

		records, err := loadSeedFile(filepath.Join(s.dir, name))
		if err != nil {
			return fmt.Errorf("loading %s: %w", name, err)
		}
		collections[collection] = records
	}

	s.cache.ReplaceAll(collections)
	return nil
}

// loadSeedFile parses one collection file: a JSON array of record
// objects. Records without an id are skipped.
func loadSeedFile(path string) (map[string]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	root, err := domain.DecodeRecord(data)
	if err != nil {
		return nil, err
	}
	if root.Kind() != domain.KindList {
		return nil, fmt.Errorf("seed file is not a JSON array")
	}

	records := map[string]domain.Record{}
	for _, rec := range root.Elems() {
		id := rec.GetString("id")
		if id == "" {
			logger.Warn("file store: skipping record without id in %s", filepath.Base(path))
			continue
		}
		records[id] = rec
	}
	return records, nil
}
