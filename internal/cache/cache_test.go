// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spug/newsletter/internal/group"
	"github.com/spug/newsletter/pkg/types"
)

func testItems() []types.Item {
	return []types.Item{
		{
			ID:              types.MustParseID("835168238475411456"),
			CreatedAt:       time.Date(2017, 3, 1, 18, 4, 5, 0, time.UTC),
			Text:            "SPFx GA https://t.co/a",
			URLs:            []types.URL{{Short: "https://t.co/a", Expanded: "https://dev.office.com/spfx", Display: "dev.office.com/spfx"}},
			EngagementCount: 12,
			Author:          types.Author{Name: "Dmitry", ScreenName: "spug"},
		},
		{
			ID:              types.MustParseID("835530626393300992"),
			CreatedAt:       time.Date(2017, 3, 2, 9, 0, 0, 0, time.UTC),
			Text:            "Office 365 roadmap https://t.co/b",
			URLs:            []types.URL{{Short: "https://t.co/b", Expanded: "https://roadmap.office.com", Display: "roadmap.office.com"}},
			EngagementCount: 4,
		},
	}
}

func TestWriteDaysThenLoad(t *testing.T) {
	dir := t.TempDir()
	buckets := group.ByDay(testItems())

	paths, err := WriteDays(dir, buckets)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "tweets for 2017-03-01.json"), paths[0])
	assert.Equal(t, filepath.Join(dir, "tweets for 2017-03-02.json"), paths[1])

	// Non-JSON files in the data directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tweets for Alex.html"), []byte("<html>"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.json"), 0o755))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, testItems(), loaded)
}

func TestWriteDaysCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "_tweets")
	_, err := WriteDays(dir, group.ByDay(testItems()[:1]))
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tweets for 2017-03-01.json"), []byte(`[{"id": "x"}]`), 0o644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "tweets for 2017-03-01.json")
}

func TestLoadEmptyDirectory(t *testing.T) {
	items, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, items)
}
