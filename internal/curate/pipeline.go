// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package curate narrows raw search results to the posts worth reviewing.
// A Pipeline applies an ordered list of pure stages; each stage receives
// the full output of the previous one and reports how many items survived.
package curate

import (
	"log/slog"

	"github.com/spug/newsletter/pkg/types"
)

// InputStage is the name under which Run records the raw item count.
const InputStage = "input"

// Stage is one transform of the pipeline. Apply must not modify its input.
type Stage struct {
	Name  string
	Apply func([]types.Item) []types.Item
}

// StageCount is the number of items left after a stage.
type StageCount struct {
	Stage string `json:"stage" yaml:"stage"`
	Count int    `json:"count" yaml:"count"`
}

// Result holds the curated items and the per-stage counts in run order.
type Result struct {
	Items  []types.Item
	Counts []StageCount
}

// Observer is told the item count after every stage.
type Observer interface {
	ObserveStage(stage string, count int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stage string, count int)

// ObserveStage calls f.
func (f ObserverFunc) ObserveStage(stage string, count int) { f(stage, count) }

// LogObserver logs each stage count at info level.
func LogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(stage string, count int) {
		logger.Info("curation stage", "stage", stage, "items", count)
	})
}

// Pipeline runs stages in order.
type Pipeline struct {
	stages    []Stage
	observers []Observer
}

// NewPipeline returns a pipeline of the given stages.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// New returns the standard pipeline: rank, originality, minimum engagement
// and uniqueness, followed by term exclusion when cfg lists terms. Later
// stages rely on the filtering of earlier ones.
func New(cfg types.CurationConfig, observers ...Observer) *Pipeline {
	p := NewPipeline(
		Rank(),
		Originality(),
		MinEngagement(cfg.MinEngagement),
		Unique(),
	)
	if len(cfg.ExcludeTerms) > 0 {
		p.stages = append(p.stages, ExcludeTerms(cfg.ExcludeTerms))
	}
	p.observers = observers
	return p
}

// WithObservers returns p with additional observers.
func (p *Pipeline) WithObservers(observers ...Observer) *Pipeline {
	return &Pipeline{
		stages:    p.stages,
		observers: append(append([]Observer(nil), p.observers...), observers...),
	}
}

// StageNames lists the stages in run order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run applies every stage to items.
func (p *Pipeline) Run(items []types.Item) Result {
	counts := make([]StageCount, 0, len(p.stages)+1)
	record := func(stage string, n int) {
		counts = append(counts, StageCount{Stage: stage, Count: n})
		for _, o := range p.observers {
			o.ObserveStage(stage, n)
		}
	}

	record(InputStage, len(items))
	for _, s := range p.stages {
		items = s.Apply(items)
		record(s.Name, len(items))
	}
	return Result{Items: items, Counts: counts}
}
