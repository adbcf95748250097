package main

import (
	"fmt"
	"log/slog"

	"games_library/internal/config"
	"games_library/internal/importer/steam"
	"games_library/internal/library"
	"games_library/internal/logger"
	"games_library/internal/services"
	"games_library/internal/storage"
	"games_library/internal/storage/backend"
	"games_library/internal/storage/uploads"

	"github.com/spf13/cobra"
)

// opener opens the configured backend; tests swap it.
type opener func(cfg config.Storage) (storage.KV, error)

// app is the state shared by every subcommand of one invocation.
type app struct {
	open       opener
	configPath string

	cfg   *config.Config
	log   *slog.Logger
	kv    storage.KV
	lib   *library.Library
	steam *steam.Client
	svc   *services.GameService
}

func newRootCmd(open opener) *cobra.Command {
	if open == nil {
		open = backend.Open
	}
	a := &app{open: open}

	root := &cobra.Command{
		Use:   "gamesctl",
		Short: "Manage the game library from the command line",
		Long: `gamesctl reads and edits the same game library the HTTP server uses.

The storage backend comes from the config file (--config or CONFIG_PATH),
or from the environment when no file is given.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.start,
		PersistentPostRunE: a.stop,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config yaml file")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.importCmd(),
		a.deleteCmd(),
		a.statsCmd(),
		a.chartsCmd(),
	)

	return root
}

func (a *app) start(cmd *cobra.Command, _ []string) error {
	const op = "gamesctl.start"

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.cfg = cfg
	a.log = logger.Setup(cfg.Env, cmd.ErrOrStderr())

	kv, err := a.open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.kv = kv

	a.lib = library.New(kv, a.log, library.Options{
		SchemaVersion: cfg.Storage.SchemaVersion,
		Debounce:      cfg.Storage.Debounce,
		PruneOrphans:  cfg.Storage.PruneOrphans,
	})
	a.lib.Load(cmd.Context())

	var images services.ImageStore
	if u, err := uploads.NewUploads(cfg.UploadsPath); err == nil {
		images = u
	} else {
		a.log.Warn("uploads unavailable", slog.String("error", err.Error()))
	}

	a.steam = steam.New(cfg.Steam.Timeout, cfg.Steam.Language, a.log)
	a.svc = services.NewGameService(a.lib, a.steam, images, a.log)

	return nil
}

// stop flushes pending writes before the process exits.
func (a *app) stop(_ *cobra.Command, _ []string) error {
	if a.lib != nil {
		if err := a.lib.Close(); err != nil {
			return err
		}
	}
	if a.kv != nil {
		return a.kv.Close()
	}
	return nil
}
