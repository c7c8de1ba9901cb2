// Package cli provides the landsplit command-line interface. It runs the same
// ingestion service as the HTTP server against local files or a sheet URL and
// prints the region buckets as JSON.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/landsplit/internal/config"
	"github.com/JonMunkholm/landsplit/internal/core"
	"github.com/JonMunkholm/landsplit/internal/ingest"
	"github.com/JonMunkholm/landsplit/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

type appKey struct{}

// app is built once per invocation in PersistentPreRunE.
type app struct {
	cfg     *config.Config
	service *core.Service
}

type rootOptions struct {
	regionsFile string
	includeAll  bool
	worksheet   int
	logLevel    string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "landsplit",
		Short: "Split land-survey spreadsheets by region",
		Long: `landsplit reads a survey spreadsheet, normalizes its column names and
state values, and partitions the rows into region buckets.

Configuration comes from the environment (and a .env file when present), the
same variables the HTTP server reads. Flags override them per invocation.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.regionsFile, "regions", "", "region profile YAML (overrides REGIONS_FILE)")
	rootCmd.PersistentFlags().BoolVar(&opts.includeAll, "include-all", false, "add the all-rows bucket")
	rootCmd.PersistentFlags().IntVar(&opts.worksheet, "worksheet", -1, "worksheet index to read (default: profile setting)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(newSplitCommand())
	rootCmd.AddCommand(newSheetCommand())
	rootCmd.AddCommand(newRegionsCommand())

	return rootCmd
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logging.SetupWriter(cmd.ErrOrStderr(), level, cfg.Logging.Format)

	if opts.regionsFile != "" {
		p, err := config.LoadProfile(opts.regionsFile)
		if err != nil {
			return nil, err
		}
		cfg.Profile = p
	}
	if opts.includeAll {
		cfg.Profile.IncludeAll = true
	}
	if opts.worksheet >= 0 {
		cfg.Profile.WorksheetIndex = opts.worksheet
	}
	if err := cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	limiter := core.NewIngestLimiter(1, cfg.Ingest.MaxWaitTime)
	fetcher := ingest.FetcherFromConfig(cfg.Sheets, cfg.Profile.WorksheetIndex)

	return &app{
		cfg:     cfg,
		service: core.NewService(cfg.Profile, fetcher, core.WithLimiter(limiter)),
	}, nil
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, errors.New("command context not initialized")
	}
	return a, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Stderr)
}

func run(rootCmd *cobra.Command, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if code := core.MapError(err).Code; code != "" && code != "ERR000" {
			fmt.Fprintf(stderr, "Error: %v (code %s)\n", err, code)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
