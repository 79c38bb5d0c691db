// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for calls to the search API.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "newsletter/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RetryMax is the number of transport-level retries on HTTP 429 and
	// connection errors. The default 0 keeps the search contract of
	// aborting on the first failure.
	RetryMax int `json:"retry_max" yaml:"retry_max" mapstructure:"retry_max"`
}

// SigningMode selects how search requests are authorized.
type SigningMode string

const (
	SigningBearer SigningMode = "bearer"
	SigningOAuth1 SigningMode = "oauth1"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root (default https://api.twitter.com/).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Terms are combined with OR; multi-word terms are quoted.
	Terms []string `json:"terms" yaml:"terms" mapstructure:"terms"`

	// Lang restricts results to an ISO 639-1 language.
	Lang string `json:"lang" yaml:"lang" mapstructure:"lang"`

	// ResultType is recent, popular or mixed.
	ResultType string `json:"result_type" yaml:"result_type" mapstructure:"result_type"`

	// PageSize is the number of posts per page, at most 100.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// SinceDays and UntilDays bound the search window, counted back from
	// today. UntilDays 0 means "including today".
	SinceDays int `json:"since_days" yaml:"since_days" mapstructure:"since_days"`
	UntilDays int `json:"until_days" yaml:"until_days" mapstructure:"until_days"`

	// Filter is an optional content filter (e.g. "links").
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty" mapstructure:"filter"`

	// Signing selects bearer (default) or oauth1 request signing.
	Signing SigningMode `json:"signing" yaml:"signing" mapstructure:"signing"`
}

// CurationConfig holds settings for the curation pipeline and the reviewer
// distribution. It is passed explicitly into both.
type CurationConfig struct {
	// MinEngagement is the minimum repost count an item needs to survive.
	MinEngagement int `json:"min_engagement" yaml:"min_engagement" mapstructure:"min_engagement"`

	// Reviewers receive the curated items round robin, one page each.
	Reviewers []string `json:"reviewers" yaml:"reviewers" mapstructure:"reviewers"`

	// ExcludeTerms drops items whose text contains any of these terms
	// (case-insensitive). Empty disables the stage.
	ExcludeTerms []string `json:"exclude_terms,omitempty" yaml:"exclude_terms,omitempty" mapstructure:"exclude_terms"`
}

// StorageConfig holds settings for the cache and rendered output.
type StorageConfig struct {
	// DataDir holds the per-day JSON files, reviewer pages and run manifest.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// UseCached reads DataDir instead of running a live search.
	UseCached bool `json:"use_cached" yaml:"use_cached" mapstructure:"use_cached"`
}

// ServeConfig holds settings for the review server.
type ServeConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups all settings of the curator.
type Config struct {
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Curation CurationConfig `json:"curation" yaml:"curation" mapstructure:"curation"`
	Storage  StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
	Serve    ServeConfig    `json:"serve" yaml:"serve" mapstructure:"serve"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
}
