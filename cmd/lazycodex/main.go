package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazycodex/internal/app"
	"github.com/rebeliceyang/lazycodex/internal/client"
	"github.com/rebeliceyang/lazycodex/internal/config"
	"github.com/rebeliceyang/lazycodex/internal/favorites"
	"github.com/rebeliceyang/lazycodex/internal/history"
	"github.com/rebeliceyang/lazycodex/internal/models"
	"github.com/rebeliceyang/lazycodex/internal/pages"
	"github.com/rebeliceyang/lazycodex/internal/query"
)

const (
	logFileName     = "lazycodex.log"
	historyFileName = "history.db"
)

var (
	configFile string
	apiURL     string
	jsonOutput bool

	cfg      *config.Config
	logger   *slog.Logger
	codex    client.Client
	registry *pages.Registry

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "lazycodex [resource] [query]",
	Short: "Browse the game codex from the terminal",
	Long: `lazycodex browses creatures, traits, spells, perks, races, classes,
status effects and specializations of the codex API.

Without a subcommand it opens the terminal UI, optionally on a resource page
and a query taken from a shared link, e.g.

  lazycodex creatures 'q=drake&sort_by=health&sort_direction=desc'`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFrom(configFile)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}

		logger, err = newLogger(cmd == cmd.Root())
		if err != nil {
			return err
		}

		codex = client.NewHTTPClient(cfg.API.BaseURL,
			client.WithTimeout(cfg.API.TimeoutDuration()),
			client.WithLogger(logger),
		)
		registry = pages.NewRegistry(query.WithSize(cfg.Query.DefaultSize))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
		closers = nil
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/lazycodex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "codex API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Queries:"},
		&cobra.Group{ID: "saved", Title: "Saved queries:"},
		&cobra.Group{ID: "site", Title: "Web front end:"},
	)
	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(historyCmd)

	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(sitemapCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// configDir returns the user config directory, creating it if needed
func configDir() (string, error) {
	dir, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// newLogger logs to stderr for commands and to a file for the terminal UI,
// which owns the screen.
func newLogger(tui bool) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
	if !tui {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}

	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	closers = append(closers, f)
	return slog.New(slog.NewTextHandler(f, opts)), nil
}

func openFavorites() (*favorites.Manager, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return favorites.NewManager(dir)
}

func openHistory() (*history.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	store, err := history.NewStore(filepath.Join(dir, historyFileName))
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	closers = append(closers, store)
	return store, nil
}

// encodeQuery stores states the way links carry them
func encodeQuery(resource models.Resource, state models.QueryState) string {
	page, err := registry.Get(resource)
	if err != nil {
		return ""
	}
	return page.Structure().Encode(state).Encode()
}

// newRecorder returns the history recorder, or nil when history is off
// or cannot be opened
func newRecorder() *history.Recorder {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := openHistory()
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return nil
	}
	return history.NewRecorder(store, encodeQuery, cfg.History.MaxEntries, logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := app.Options{
		Config:   cfg,
		Client:   codex,
		Registry: registry,
		Logger:   logger,
	}

	if len(args) > 0 {
		page, err := registry.Lookup(args[0])
		if err != nil {
			return err
		}
		opts.Resource = page.Resource()
	}
	if len(args) > 1 {
		opts.Query = args[1]
	}

	if favs, err := openFavorites(); err != nil {
		logger.Warn("favorites disabled", "error", err)
	} else {
		opts.Favorites = favs
	}
	if r := newRecorder(); r != nil {
		opts.Recorder = r
	}

	logger.Info("starting", "api", cfg.API.BaseURL, "resource", opts.Resource)
	return app.Run(cmd.Context(), opts)
}
