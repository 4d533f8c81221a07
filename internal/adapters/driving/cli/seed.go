package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/galeria-labs/galeria/internal/config"
	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
)

var seedCmd = &cobra.Command{
	Use:   "seed [dir]",
	Short: "Load JSON seed files into the record store",
	Long: `Reads the JSON files in the given directory and writes their
records into the configured store. Each file holds one collection
named after the file: artists.json, works.json, news.json,
articles.json. A record without an id is assigned a fresh one.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	writer, ok := store.(driven.RecordWriter)
	if !ok {
		return errors.New("configured store backend is not writable; use the sqlite backend")
	}

	total, err := seedDir(cmd.Context(), writer, args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Seeded %d records.\n", total)
	return nil
}

func seedDir(ctx context.Context, writer driven.RecordWriter, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading seed directory: %w", err)
	}

	total := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		collection := strings.TrimSuffix(name, ".json")

		n, err := seedFile(ctx, writer, collection, filepath.Join(dir, name))
		if err != nil {
			return total, fmt.Errorf("seeding %s: %w", name, err)
		}
		total += n
	}
	return total, nil
}

func seedFile(ctx context.Context, writer driven.RecordWriter, collection, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	root, err := domain.DecodeRecord(data)
	if err != nil {
		return 0, err
	}
	if root.Kind() != domain.KindList {
		return 0, fmt.Errorf("expected a JSON array of records, got %s", root.Kind())
	}

	n := 0
	for _, rec := range root.Elems() {
		if rec.Kind() != domain.KindMap {
			continue
		}
		id := rec.GetString("id")
		if id == "" {
			id = uuid.NewString()
			rec = withID(rec, id)
		}
		if err := writer.PutRecord(ctx, collection, id, rec); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// withID returns a copy of rec with the given id as its first field.
func withID(rec domain.Record, id string) domain.Record {
	fields := make([]domain.Field, 0, rec.Len()+1)
	fields = append(fields, domain.Field{Key: "id", Value: domain.String(id)})
	for _, key := range rec.Keys() {
		fields = append(fields, domain.Field{Key: key, Value: rec.Get(key)})
	}
	return domain.Map(fields...)
}
