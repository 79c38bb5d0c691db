// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/spug/newsletter/internal/curate"
	"github.com/spug/newsletter/internal/runner"
	"github.com/spug/newsletter/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reviewer pages and day files over HTTP",
	Long: `Serve exposes the data directory: /reviewers/{name} returns a review page,
/days and /days/{YYYY-MM-DD} the stored day files, /runs/latest the last run
manifest. POST /runs starts a curation run with the loaded configuration and
/metrics reports the stage counts of runs started this way.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().String("data-dir", "", "data directory to serve")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Storage.DataDir, _ = cmd.Flags().GetString("data-dir")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := curate.NewMetrics(reg)

	run := func(ctx context.Context) (runner.Summary, error) {
		r, err := newRunner(*cfg)
		if err != nil {
			return runner.Summary{}, err
		}
		r.Observers = append(r.Observers, metrics)
		return r.Run(ctx, io.Discard)
	}

	srv := server.NewHTTPServer(cfg.Serve.Addr, server.New(cfg.Storage.DataDir, run, reg, logger))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	color.New(color.FgCyan).Fprintf(os.Stderr, "serving %s on %s\n", cfg.Storage.DataDir, cfg.Serve.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(ctx)
}
