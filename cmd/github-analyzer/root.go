package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/LeoncioDev/github-analyzer/internal/backend"
	"github.com/LeoncioDev/github-analyzer/internal/config"
	"github.com/LeoncioDev/github-analyzer/internal/controller"
	"github.com/LeoncioDev/github-analyzer/internal/display"
	"github.com/LeoncioDev/github-analyzer/internal/model"
	"github.com/LeoncioDev/github-analyzer/internal/retry"
	"github.com/LeoncioDev/github-analyzer/internal/store"
	"github.com/LeoncioDev/github-analyzer/internal/theme"
	"github.com/LeoncioDev/github-analyzer/internal/tui"
)

var (
	cfgPath string
	debug   bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "github-analyzer",
	Short: "Analyze GitHub profiles from the terminal",
	Long: "github-analyzer sends GitHub profiles to the analysis service and shows the result.\n" +
		"Run without a subcommand to open the interactive page.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPage,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.EnvPath+" env var or ./"+config.LocalPath+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write interactive-page logs to this file")
}

// loadConfig reads .env, resolves the config path and parses it.
// Priority: explicit path arg > GITHUB_ANALYZER_CONFIG env var > ./config.yaml > built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Load(config.Discover(path))
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stderr, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// prefStore is a theme store that holds a resource.
type prefStore interface {
	model.PreferenceStore
	Close() error
}

// app is the wired object graph shared by every command.
type app struct {
	cfg    *config.Config
	ctrl   *controller.Controller
	themes *theme.Manager
	store  prefStore
}

func (a *app) Close() error {
	return a.store.Close()
}

func buildApp(cfg *config.Config, logger *slog.Logger) *app {
	// Requests are bounded by the controller's context.
	httpClient := &http.Client{}
	var client model.Backend = backend.NewClient(cfg.Backend.BaseURL, httpClient, backend.Options{
		ResultFields: cfg.Backend.ResultFields,
		ErrorFields:  cfg.Backend.ErrorFields,
	}, logger)
	if cfg.Backend.Retry.MaxRetries > 0 {
		client = retry.NewBackend(client, cfg.Backend.Retry.MaxRetries, cfg.Backend.Retry.BaseDelay, logger)
	}

	region := display.NewRegion(display.NewLogObserver(logger))
	ctrl := controller.New(client, region, controller.Options{
		Endpoints: controller.Endpoints{
			Profile: cfg.Backend.Endpoints.Profile,
			Ranking: cfg.Backend.Endpoints.Ranking,
			Filters: cfg.Backend.Endpoints.Filters,
		},
		ProfilePayload: cfg.Backend.ProfilePayload,
		FilterDefaults: controller.FilterDefaults{
			MinRepos:         cfg.Filters.Defaults.MinRepos,
			MinStars:         cfg.Filters.Defaults.MinStars,
			MinFollowers:     cfg.Filters.Defaults.MinFollowers,
			AtividadeRecente: cfg.Filters.Defaults.AtividadeRecente,
		},
		Timeout: cfg.Backend.Timeout,
	}, logger)

	st := openStore(cfg, logger)
	themes := theme.NewManager(st, logger)
	if _, err := themes.Load(); err != nil {
		logger.Warn("failed to load theme preference", "error", err)
	}

	return &app{cfg: cfg, ctrl: ctrl, themes: themes, store: st}
}

// openStore falls back to a NopStore when persistence is off or the
// database cannot be opened; the theme then lives for this run only.
func openStore(cfg *config.Config, logger *slog.Logger) prefStore {
	if !cfg.Theme.Persist {
		return store.NewNopStore()
	}
	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn("failed to open preference store, theme will not persist", "path", cfg.Store.Path, "error", err)
		return store.NewNopStore()
	}
	return sqlStore
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runPage(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The page owns the terminal; logs go to --log-file or nowhere.
	pageLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		pageLogger = newLogger(f, debug)
	}

	a := buildApp(cfg, pageLogger)
	defer a.Close()

	ctx, stop := signalContext()
	defer stop()

	m := tui.New(a.ctrl, a.themes, tui.Options{
		CandidatesMax: cfg.Candidates.Max,
		Languages:     cfg.Filters.Languages,
		Skills:        cfg.Filters.Skills,
		Methodologies: cfg.Filters.Methodologies,
	}, pageLogger)

	pageLogger.Info("starting page", "backend", cfg.Backend.BaseURL, "theme", a.themes.Current())
	return tui.Run(ctx, m)
}
