// Package cli implements the modelcache command line front-end. It is
// presentation glue only: it wires configuration, logging and storage
// together, invokes the manager's public operations and renders progress
// events.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fluentvoice/modelcache/internal/adapter/sqlite"
	"github.com/fluentvoice/modelcache/internal/config"
	"github.com/fluentvoice/modelcache/internal/fs"
	"github.com/fluentvoice/modelcache/internal/logger"
	"github.com/fluentvoice/modelcache/internal/manager"
	"github.com/fluentvoice/modelcache/internal/port"
)

var configFlag string

// NewRootCommand builds the modelcache command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "modelcache",
		Short:        "Manage locally cached whisper model artifacts",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to configuration file")

	rootCmd.AddCommand(
		newStatusCommand(),
		newFetchCommand(),
		newEvictCommand(),
		newHistoryCommand(),
	)

	return rootCmd
}

// app bundles the wired services for one command invocation.
type app struct {
	cfg     *config.Config
	fsys    *fs.Manager
	mgr     *manager.Manager
	history port.History
}

// newApp loads configuration and wires the services in dependency order:
// config, logger, filesystem, history store, manager.
func newApp() (*app, func(), error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zapLogger := logger.GetZapLogger()

	fsys := fs.NewManagerWithBufferSize(cfg.Cache.RootDir, cfg.Download.GetChunkSize())

	var history port.History
	var store *sqlite.Store
	if cfg.History.Enabled {
		if err := fsys.EnsureRoot(); err != nil {
			return nil, nil, err
		}
		store, err = sqlite.Open(cfg.GetHistoryPath())
		if err != nil {
			// History is observational; a broken database never blocks
			// cache operations.
			zapLogger.Warn("failed to open history database, continuing without",
				zap.String("path", cfg.GetHistoryPath()),
				zap.Error(err))
		} else {
			history = store
		}
	}

	mgr := manager.New(&manager.Config{
		BaseURL:          cfg.Download.BaseURL,
		ProgressInterval: cfg.Download.GetProgressInterval(),
		Timeout:          cfg.Download.GetTimeout(),
	}, fsys, history, zapLogger)

	cleanup := func() {
		if store != nil {
			store.Close()
		}
		logger.Sync()
	}

	return &app{cfg: cfg, fsys: fsys, mgr: mgr, history: history}, cleanup, nil
}
