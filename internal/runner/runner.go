// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner wires one curation run end to end: fetch raw items (live
// or from the day-file cache), curate them, group them by day and by
// reviewer, and write the day files, reviewer pages and run manifest.
//
// Nothing is written unless every step before writing succeeded.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/spug/newsletter/internal/cache"
	"github.com/spug/newsletter/internal/curate"
	"github.com/spug/newsletter/internal/group"
	"github.com/spug/newsletter/internal/render"
	"github.com/spug/newsletter/internal/search"
	"github.com/spug/newsletter/internal/secrets"
	"github.com/spug/newsletter/pkg/types"
)

// ManifestFile is the run manifest written into the data directory.
const ManifestFile = "run.yaml"

// Sources of raw items.
const (
	SourceLive   = "live"
	SourceCached = "cached"
)

// ErrNoCredentials is returned for a live run without a consumer key pair.
var ErrNoCredentials = errors.New("live search needs a consumer key and secret")

// Searcher is the part of the search client a run needs.
type Searcher interface {
	Authenticate(ctx context.Context, key, secret string, mode search.AuthMode) (*search.Session, error)
	Search(ctx context.Context, s *search.Session, q search.Query) ([]types.Item, error)
}

// Runner holds the collaborators of a run. Searcher and Credentials are
// only used for live runs.
type Runner struct {
	Config      types.Config
	Searcher    Searcher
	Credentials secrets.Credentials
	Renderer    *render.Renderer
	Observers   []curate.Observer
	Logger      *slog.Logger
	Now         func() time.Time
}

// DaySummary describes one written day file.
type DaySummary struct {
	Day   string `json:"day" yaml:"day"`
	Items int    `json:"items" yaml:"items"`
	File  string `json:"file" yaml:"file"`
}

// ReviewerSummary describes one written reviewer page.
type ReviewerSummary struct {
	Reviewer string `json:"reviewer" yaml:"reviewer"`
	Items    int    `json:"items" yaml:"items"`
	File     string `json:"file" yaml:"file"`
}

// Summary is the outcome of a run. It is also the run manifest.
type Summary struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	StartedAt time.Time           `json:"started_at" yaml:"started_at"`
	Source    string              `json:"source" yaml:"source"`
	Query     string              `json:"query,omitempty" yaml:"query,omitempty"`
	Stages    []curate.StageCount `json:"stages" yaml:"stages"`
	Days      []DaySummary        `json:"days" yaml:"days"`
	Reviewers []ReviewerSummary   `json:"reviewers" yaml:"reviewers"`
}

// Curated returns the item count after the last stage.
func (s Summary) Curated() int {
	if len(s.Stages) == 0 {
		return 0
	}
	return s.Stages[len(s.Stages)-1].Count
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Run performs one curation run and reports progress lines to w.
func (r *Runner) Run(ctx context.Context, w io.Writer) (Summary, error) {
	sum := Summary{
		RunID:     uuid.NewString(),
		StartedAt: r.now().UTC(),
	}
	log := r.logger().With("run_id", sum.RunID)

	raw, err := r.fetch(ctx, &sum)
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "fetched: %d items (%s)\n", len(raw), sum.Source)

	observers := append([]curate.Observer{curate.LogObserver(log)}, r.Observers...)
	res := curate.New(r.Config.Curation, observers...).Run(raw)
	sum.Stages = res.Counts
	for _, c := range res.Counts {
		fmt.Fprintf(w, "  %-16s %d\n", c.Stage, c.Count)
	}

	days := group.ByDay(res.Items)
	reviewers, err := group.RoundRobin(res.Items, r.Config.Curation.Reviewers)
	if err != nil {
		return sum, err
	}

	if err := r.write(&sum, days, reviewers); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "wrote: %d day file(s), %d reviewer page(s) to %s\n",
		len(sum.Days), len(sum.Reviewers), r.Config.Storage.DataDir)
	log.Info("run complete", "curated", sum.Curated(), "days", len(sum.Days), "reviewers", len(sum.Reviewers))
	return sum, nil
}

func (r *Runner) fetch(ctx context.Context, sum *Summary) ([]types.Item, error) {
	if r.Config.Storage.UseCached {
		sum.Source = SourceCached
		items, err := cache.Load(r.Config.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("loading cached items: %w", err)
		}
		return items, nil
	}

	sum.Source = SourceLive
	if r.Searcher == nil {
		return nil, errors.New("live search needs a search client")
	}
	if r.Credentials.ConsumerKey == "" || r.Credentials.ConsumerSecret == "" {
		return nil, ErrNoCredentials
	}

	q := search.QueryFromConfig(r.Config.Search, r.now())
	sum.Query = q.Text()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	session, err := r.Searcher.Authenticate(ctx, r.Credentials.ConsumerKey, r.Credentials.ConsumerSecret, search.AuthApplicationOnly)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("authenticated", "token_type", session.TokenType())

	return r.Searcher.Search(ctx, session, q)
}

func (r *Runner) write(sum *Summary, days []group.DayBucket, reviewers []group.ReviewerBucket) error {
	dir := r.Config.Storage.DataDir

	dayPaths, err := cache.WriteDays(dir, days)
	if err != nil {
		return err
	}
	for i, b := range days {
		sum.Days = append(sum.Days, DaySummary{
			Day:   b.Day.Format(time.DateOnly),
			Items: len(b.Items),
			File:  filepath.Base(dayPaths[i]),
		})
	}

	renderer := r.Renderer
	if renderer == nil {
		renderer = render.New(uint64(r.now().UnixNano()))
	}
	pagePaths, err := renderer.WriteReviewers(dir, reviewers)
	if err != nil {
		return err
	}
	for i, b := range reviewers {
		sum.Reviewers = append(sum.Reviewers, ReviewerSummary{
			Reviewer: b.Reviewer,
			Items:    len(b.Items),
			File:     filepath.Base(pagePaths[i]),
		})
	}

	return WriteManifest(filepath.Join(dir, ManifestFile), *sum)
}

// WriteManifest writes sum as YAML to path.
func WriteManifest(path string, sum Summary) error {
	data, err := yaml.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("reading manifest: %w", err)
	}
	var sum Summary
	if err := yaml.Unmarshal(data, &sum); err != nil {
		return Summary{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return sum, nil
}
