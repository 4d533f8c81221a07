package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/galeria-labs/galeria/internal/adapters/driving/httpapi"
	"github.com/galeria-labs/galeria/internal/config"
	"github.com/galeria-labs/galeria/internal/core/services"
	"github.com/galeria-labs/galeria/internal/logger"
)

// shutdownGrace bounds the drain of in-flight requests on SIGTERM.
const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP discovery server",
	Long: `Starts the HTTP server exposing site-wide search, tag pages and
the artist directory. The server runs until interrupted and drains
in-flight requests before exiting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("cli: closing store: %v", err)
		}
	}()

	siteCfg := services.CatalogConfig{
		PerSourceLimit: cfg.Search.PerSourceLimit,
		OutputCap:      cfg.Search.SiteResultCap,
		SourceTimeout:  cfg.Search.SourceTimeout(),
	}
	directoryCfg := siteCfg
	directoryCfg.OutputCap = cfg.Search.DirectoryResultCap

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:               cfg.Server.Addr,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
	},
		services.NewSiteDiscovery(store, siteCfg),
		services.NewArtistDirectory(store, directoryCfg),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("cli: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
