// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores curated items as one JSON file per day and reads
// them back as raw input for offline runs. The files are a flat snapshot:
// reading concatenates every day file in directory order.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spug/newsletter/internal/group"
	"github.com/spug/newsletter/pkg/types"
)

const dayFileFmt = "2006-01-02"

// DayFileName returns the file name of a day bucket.
func DayFileName(b group.DayBucket) string {
	return fmt.Sprintf("tweets for %s.json", b.Day.Format(dayFileFmt))
}

// Load reads every *.json file in dir, each a JSON array of items, and
// returns their concatenation.
func Load(dir string) ([]types.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory %s: %w", dir, err)
	}

	var items []types.Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		day, err := readDayFile(path)
		if err != nil {
			return nil, err
		}
		items = append(items, day...)
	}
	return items, nil
}

func readDayFile(path string) ([]types.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var items []types.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return items, nil
}

// WriteDays writes one tab-indented JSON file per bucket into dir and
// returns the written paths in bucket order.
func WriteDays(dir string, buckets []group.DayBucket) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	paths := make([]string, 0, len(buckets))
	for _, b := range buckets {
		data, err := json.MarshalIndent(b.Items, "", "\t")
		if err != nil {
			return paths, fmt.Errorf("marshaling %s: %w", b.Day.Format(dayFileFmt), err)
		}
		path := filepath.Join(dir, DayFileName(b))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
