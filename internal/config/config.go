// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the curator settings from newsletter.yaml, the
// NEWSLETTER_* environment and built-in defaults, in that order of
// precedence after explicit flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spug/newsletter/pkg/types"
)

// Defaults.
const (
	DefaultDataDir   = "_tweets"
	DefaultAddr      = ":8080"
	DefaultUserAgent = "newsletter/0.1"
	DefaultTimeout   = 30 * time.Second
)

// Load reads cfgFile, or newsletter.yaml from the working directory or
// ~/.config/newsletter when cfgFile is empty. A missing default config
// file is not an error. It returns the path of the file used, if any.
func Load(cfgFile string) (*types.Config, string, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("newsletter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "newsletter"))
		}
	}

	v.SetEnvPrefix("NEWSLETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, "", fmt.Errorf("validating config: %w", err)
	}
	return &cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("search.base_url", "https://api.twitter.com/")
	v.SetDefault("search.timeout", DefaultTimeout)
	v.SetDefault("search.user_agent", DefaultUserAgent)
	v.SetDefault("search.retry_max", 0)
	v.SetDefault("search.terms", []string{"SharePoint", "Office365", "SPFX", "Office 365"})
	v.SetDefault("search.lang", "en")
	v.SetDefault("search.result_type", "recent")
	v.SetDefault("search.page_size", 100)
	v.SetDefault("search.since_days", 6)
	v.SetDefault("search.until_days", 0)
	v.SetDefault("search.filter", "links")
	v.SetDefault("search.signing", string(types.SigningBearer))

	v.SetDefault("curation.min_engagement", 3)
	v.SetDefault("curation.reviewers", []string{"Dmitry", "Alex", "Olya", "Natally", "Andrew"})
	v.SetDefault("curation.exclude_terms", []string{})

	v.SetDefault("storage.data_dir", DefaultDataDir)
	v.SetDefault("storage.use_cached", false)

	v.SetDefault("serve.addr", DefaultAddr)

	v.SetDefault("logging.level", "info")
}

// Validate checks settings that no later stage would reject with a clear
// message.
func Validate(cfg *types.Config) error {
	if cfg.Storage.DataDir == "" {
		return errors.New("storage.data_dir must not be empty")
	}
	if cfg.Curation.MinEngagement < 0 {
		return fmt.Errorf("curation.min_engagement must not be negative, got %d", cfg.Curation.MinEngagement)
	}
	switch cfg.Search.Signing {
	case types.SigningBearer, types.SigningOAuth1:
	default:
		return fmt.Errorf("search.signing must be %q or %q, got %q",
			types.SigningBearer, types.SigningOAuth1, cfg.Search.Signing)
	}
	if _, err := ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a logging.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", s)
}
