// Package cli provides the galeria command line interface. Commands
// load the configuration, wire the record store to the discovery
// services and hand them to the HTTP server or the seed loader.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/galeria-labs/galeria/internal/adapters/driven/storage/file"
	"github.com/galeria-labs/galeria/internal/adapters/driven/storage/sqlite"
	"github.com/galeria-labs/galeria/internal/config"
	"github.com/galeria-labs/galeria/internal/core/ports/driven"
	"github.com/galeria-labs/galeria/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "galeria",
	Short: "Discovery backend for the galeria content site",
	Long: `galeria serves the search and browse endpoints of an art content
site: site-wide search across artists, works, news and articles,
tag pages, and the artist directory.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ~/.galeria/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the record backend named in the configuration. The
// caller owns the returned closer.
func openStore(cfg config.Config) (driven.RecordStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.BackendFile:
		store, err := file.NewRecordStore(cfg.Store.SeedDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
