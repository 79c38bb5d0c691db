// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the newsletter CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spug/newsletter/internal/config"
	"github.com/spug/newsletter/internal/secrets"
	"github.com/spug/newsletter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is loaded once before any subcommand runs.
	cfg *types.Config

	logger *slog.Logger

	// creds holds the consumer key pair; credsErr is kept rather than
	// returned so that cached runs and the server work without credentials.
	creds    secrets.Credentials
	credsErr error
)

// rootCmd is the base command for the newsletter CLI.
var rootCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Curate social search results into a reviewable newsletter draft",
	Long: `newsletter searches recent posts for the configured terms, keeps the
original, well-engaged posts with a unique link, stores them as one JSON file
per day and renders one HTML review page per reviewer.

Credentials are read from .secrets/consumer-key and .secrets/consumer-secret,
or from NEWSLETTER_CONSUMER_KEY and NEWSLETTER_CONSUMER_SECRET (a .env file
in the working directory is loaded first).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, used, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level, _ := config.ParseLevel(cfg.Logging.Level)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		if used != "" {
			logger.Debug("using config file", "path", used)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			color.New(color.Faint).Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		creds, credsErr = secrets.Resolve(s, nil)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./newsletter.yaml or ~/.config/newsletter/newsletter.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
		stop()
		os.Exit(1)
	}
}
