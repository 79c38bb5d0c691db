// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed, with surrounding single quotes removed) are the value.
//
// Supported key files: consumer-key, consumer-secret.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key file names.
const (
	ConsumerKey    = "consumer-key"
	ConsumerSecret = "consumer-secret"
)

// ErrMissingCredentials is returned by Resolve when a consumer key or secret
// is found neither in the secrets directory nor in the environment.
var ErrMissingCredentials = errors.New("missing consumer credentials")

// Credentials are the application consumer key pair used to authenticate
// against the search API.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := clean(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Resolve picks the consumer key pair from secrets, falling back to the
// NEWSLETTER_CONSUMER_KEY and NEWSLETTER_CONSUMER_SECRET variables read
// through lookup. A nil lookup uses os.LookupEnv.
func Resolve(secrets map[string]string, lookup func(string) (string, bool)) (Credentials, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) string {
		if v := secrets[name]; v != "" {
			return v
		}
		v, _ := lookup(envName(name))
		return clean(v)
	}

	creds := Credentials{ConsumerKey: get(ConsumerKey), ConsumerSecret: get(ConsumerSecret)}
	var missing []string
	if creds.ConsumerKey == "" {
		missing = append(missing, ConsumerKey)
	}
	if creds.ConsumerSecret == "" {
		missing = append(missing, ConsumerSecret)
	}
	if len(missing) > 0 {
		return creds, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return creds, nil
}

func envName(key string) string {
	return "NEWSLETTER_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
