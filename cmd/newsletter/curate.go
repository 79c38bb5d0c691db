// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spug/newsletter/internal/httputil"
	"github.com/spug/newsletter/internal/render"
	"github.com/spug/newsletter/internal/runner"
	"github.com/spug/newsletter/internal/search"
	"github.com/spug/newsletter/pkg/types"
)

var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Search, curate and distribute posts to reviewers",
	Long: `Curate runs the search (or reads the cached day files with --cached),
ranks the posts by engagement, drops replies, quotes, reposts and posts
without a link, drops posts under the engagement threshold and posts whose
first link was already seen, then writes one JSON file per day and one HTML
page per reviewer into the data directory.`,
	RunE: runCurate,
}

func init() {
	curateCmd.Flags().Bool("cached", false, "read the day files in the data directory instead of searching")
	curateCmd.Flags().String("data-dir", "", "directory for day files, reviewer pages and the run manifest")
	curateCmd.Flags().Int("min-engagement", -1, "minimum repost count (default from config)")
	curateCmd.Flags().StringSlice("reviewers", nil, "reviewers, comma-separated (default from config)")
	curateCmd.Flags().Uint64("seed", 0, "seed for page decorations (default: time based)")
	curateCmd.Flags().Bool("json", false, "print the run summary as JSON")

	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	applyCurateFlags(cmd, cfg)
	seed, _ := cmd.Flags().GetUint64("seed")
	jsonOut, _ := cmd.Flags().GetBool("json")

	r, err := newRunner(*cfg)
	if err != nil {
		return err
	}
	if seed != 0 {
		r.Renderer = render.New(seed)
	}

	var progress io.Writer = os.Stdout
	if jsonOut {
		progress = os.Stderr
	}
	sum, err := r.Run(cmd.Context(), progress)
	if err != nil {
		return err
	}

	if jsonOut {
		return runner.FormatJSON(sum, os.Stdout)
	}
	fmt.Fprintln(os.Stdout)
	runner.FormatTable(sum, os.Stdout)
	color.New(color.FgGreen).Fprintf(os.Stdout, "✓ run %s done\n", sum.RunID)
	return nil
}

// applyCurateFlags overrides config values with the flags that were set.
func applyCurateFlags(cmd *cobra.Command, c *types.Config) {
	flags := cmd.Flags()
	if flags.Changed("cached") {
		c.Storage.UseCached, _ = flags.GetBool("cached")
	}
	if flags.Changed("data-dir") {
		c.Storage.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("min-engagement") {
		c.Curation.MinEngagement, _ = flags.GetInt("min-engagement")
	}
	if flags.Changed("reviewers") {
		c.Curation.Reviewers, _ = flags.GetStringSlice("reviewers")
	}
}

// newRunner wires a runner for c. Live runs need credentials.
func newRunner(c types.Config) (*runner.Runner, error) {
	r := &runner.Runner{
		Config: c,
		Logger: logger,
	}
	if c.Storage.UseCached {
		return r, nil
	}
	if credsErr != nil {
		return nil, fmt.Errorf("%w (use --cached to curate the stored day files)", credsErr)
	}

	httpClient := httputil.NewClient(c.Search.HTTPConfig, logger)
	r.Searcher = search.NewClient(httpClient, c.Search, logger)
	r.Credentials = creds
	return r, nil
}
