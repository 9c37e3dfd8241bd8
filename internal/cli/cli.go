package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pfrederiksen/fix-tags/internal/config"
	"github.com/pfrederiksen/fix-tags/internal/dictionary"
	"github.com/pfrederiksen/fix-tags/internal/logger"
	"github.com/pfrederiksen/fix-tags/internal/runner"
	"github.com/pfrederiksen/fix-tags/internal/scraper"
	"github.com/pfrederiksen/fix-tags/internal/storage"
	"github.com/pfrederiksen/fix-tags/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagVersions  []string
	flagOutputDir string
	flagFormat    string
	flagBaseURL   string
	flagTimeout   time.Duration
	flagUserAgent string
	flagDB        string
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "fix-tags",
		Short: "Scrape FIX field dictionaries into tag→name files",
		Long: `A CLI tool to scrape the OnixS FIX field dictionary for several FIX versions.
Each version's "fields by tag" table is written to fix_{version}.json in the
output directory. A version that fails to scrape is reported and skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", defaults.OutputDir, "Directory for fix_{version} files (must exist)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", defaults.Format, "File format: json or yaml")
	cmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database: scrape also stores mappings there, show reads from it")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().StringSliceVar(&flagVersions, "versions", defaults.Versions, "FIX versions to scrape, in order")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", defaults.BaseURL, "Dictionary page URL template (%s is the version)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.Timeout, "HTTP timeout per request (0 for none)")
	cmd.Flags().StringVar(&flagUserAgent, "user-agent", defaults.UserAgent, "User-Agent header sent with each request")

	cmd.AddCommand(newShowCmd())

	return cmd
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("versions") {
		cfg.Versions = flagVersions
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = flagUserAgent
	}
	if flags.Changed("db") {
		cfg.DB = flagDB
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	return logger.New(level, cmd.ErrOrStderr())
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	log.Debug("starting run", logger.Fields{
		"versions":   cfg.Versions,
		"output_dir": cfg.OutputDir,
		"format":     cfg.Format,
	})

	// ParseFormat cannot fail here, Validate already checked it
	format, _ := storage.ParseFormat(cfg.Format)

	sc := scraper.New(
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithUserAgent(cfg.UserAgent),
	)

	results := runner.New(sc, cmd.OutOrStdout(), log).Run(cmd.Context(), cfg.Versions)

	store := storage.New(cfg.OutputDir, format)
	if err := store.SaveAll(results); err != nil {
		log.Error("saving mappings failed", logger.Fields{"dir": store.Dir()}, err)
		return fmt.Errorf("saving mappings: %w", err)
	}
	log.Info("saved mappings", logger.Fields{"dir": store.Dir(), "versions": results.Versions()})

	if cfg.DB != "" {
		if err := saveToDB(cmd.Context(), cfg.DB, results, log); err != nil {
			log.Error("saving to database failed", logger.Fields{"db": cfg.DB}, err)
			return err
		}
	}

	log.Debug("run complete", logger.Fields{
		"versions_ok": len(results),
		"entries":     results.Len(),
		"metrics":     log.Metrics().GetSnapshot(),
	})

	return nil
}

func saveToDB(ctx context.Context, path string, results dictionary.FixMappings, log *logger.Logger) error {
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.SaveAll(ctx, results); err != nil {
		return fmt.Errorf("saving to database: %w", err)
	}
	log.Debug("saved mappings to database", logger.Fields{"db": db.Path()})
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
