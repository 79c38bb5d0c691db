// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spug/newsletter/pkg/types"
)

func item(id string, engagement int, urls ...string) types.Item {
	it := types.Item{ID: types.MustParseID(id), EngagementCount: engagement, Text: "post " + id}
	for _, u := range urls {
		it.URLs = append(it.URLs, types.URL{Short: "https://t.co/" + id, Expanded: u, Display: u})
	}
	return it
}

func ids(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.String()
	}
	return out
}

// --- Rank ---

func TestRankSortsDescending(t *testing.T) {
	in := []types.Item{item("1", 2), item("2", 9), item("3", 5)}
	got := Rank().Apply(in)
	assert.Equal(t, []string{"2", "3", "1"}, ids(got))
	assert.Equal(t, []string{"1", "2", "3"}, ids(in), "input must not be reordered")
}

func TestRankIsStable(t *testing.T) {
	in := []types.Item{
		item("1", 3), item("2", 5), item("3", 3), item("4", 5), item("5", 3), item("6", 0),
	}
	got := Rank().Apply(in)
	assert.Equal(t, []string{"2", "4", "1", "3", "5", "6"}, ids(got))
}

// --- Originality ---

func TestOriginality(t *testing.T) {
	reply := item("1", 5, "https://a.com")
	reply.IsReply = true
	replyByName := item("2", 5, "https://b.com")
	replyByName.ReplyTo = "someone"
	quote := item("3", 5, "https://c.com")
	quote.IsQuote = true
	repost := item("4", 5, "https://d.com")
	repost.IsRepost = true
	noURL := item("5", 5)
	original := item("6", 5, "https://e.com")

	got := Originality().Apply([]types.Item{reply, replyByName, quote, repost, noURL, original})
	assert.Equal(t, []string{"6"}, ids(got))
}

// --- MinEngagement ---

func TestMinEngagement(t *testing.T) {
	in := []types.Item{item("1", 2), item("2", 3), item("3", 4)}
	assert.Equal(t, []string{"2", "3"}, ids(MinEngagement(3).Apply(in)))
	assert.Len(t, MinEngagement(0).Apply(in), 3)
	assert.Empty(t, MinEngagement(10).Apply(in))
}

// --- Unique ---

func TestUniqueKeepsFirstCanonicalURL(t *testing.T) {
	in := []types.Item{
		item("1", 1, "http://X.com/a/"),
		item("2", 9, "http://x.com/a"),
		item("3", 4, "http://x.com/b"),
	}
	got := Unique().Apply(in)
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestUniqueUsesFirstURLOnly(t *testing.T) {
	in := []types.Item{
		item("1", 1, "https://a.com", "https://shared.com"),
		item("2", 1, "https://shared.com"),
	}
	assert.Equal(t, []string{"1", "2"}, ids(Unique().Apply(in)))
}

func TestUniqueDropsItemsWithoutURL(t *testing.T) {
	in := []types.Item{item("1", 1), item("2", 1, "https://a.com"), item("3", 1, "")}
	assert.Equal(t, []string{"2"}, ids(Unique().Apply(in)))
}

func TestUniqueIsIdempotent(t *testing.T) {
	in := []types.Item{
		item("1", 1, "https://A.com/x"),
		item("2", 2, "https://a.com/x/"),
		item("3", 3, "https://b.com"),
		item("4", 4),
		item("5", 5, "https://B.COM"),
		item("6", 6, "https://c.com"),
	}
	once := Unique().Apply(in)
	twice := Unique().Apply(once)
	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, []string{"1", "3", "6"}, ids(once))
}

func TestCanonicalURL(t *testing.T) {
	key, ok := CanonicalURL(item("1", 0, " HTTPS://Example.com/Path// "))
	require.True(t, ok)
	assert.Equal(t, "https://example.com/path", key)

	_, ok = CanonicalURL(item("2", 0))
	assert.False(t, ok)
}

// --- ExcludeTerms ---

func TestExcludeTerms(t *testing.T) {
	job := item("1", 1, "https://a.com")
	job.Text = "We are HIRING a SharePoint developer"
	news := item("2", 1, "https://b.com")
	news.Text = "SPFx 1.4 released"

	got := ExcludeTerms([]string{"hiring", " ", "#job"}).Apply([]types.Item{job, news})
	assert.Equal(t, []string{"2"}, ids(got))
}

// --- Pipeline ---

func TestNewStageOrder(t *testing.T) {
	p := New(types.CurationConfig{MinEngagement: 3})
	assert.Equal(t, []string{"rank", "originality", "min_engagement", "unique"}, p.StageNames())

	p = New(types.CurationConfig{MinEngagement: 3, ExcludeTerms: []string{"hiring"}})
	assert.Equal(t, []string{"rank", "originality", "min_engagement", "unique", "exclude_terms"}, p.StageNames())
}

func TestPipelineRun(t *testing.T) {
	reply := item("4", 50, "https://r.com")
	reply.IsReply = true
	in := []types.Item{
		item("1", 3, "https://a.com"),
		item("2", 8, "https://A.com/"),
		item("3", 1, "https://b.com"),
		reply,
		item("5", 5, "https://c.com"),
		item("6", 9),
	}

	var observed []StageCount
	p := New(types.CurationConfig{MinEngagement: 3}, ObserverFunc(func(stage string, n int) {
		observed = append(observed, StageCount{Stage: stage, Count: n})
	}))

	res := p.Run(in)

	// Ranking runs first, so the higher-engagement duplicate wins.
	assert.Equal(t, []string{"2", "5"}, ids(res.Items))
	want := []StageCount{
		{"input", 6}, {"rank", 6}, {"originality", 4}, {"min_engagement", 3}, {"unique", 2},
	}
	assert.Equal(t, want, res.Counts)
	assert.Equal(t, want, observed)
}

func TestPipelineRunEmpty(t *testing.T) {
	res := New(types.CurationConfig{}).Run(nil)
	assert.Empty(t, res.Items)
	require.Len(t, res.Counts, 5)
	for _, c := range res.Counts {
		assert.Zero(t, c.Count)
	}
}

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	p := New(types.CurationConfig{MinEngagement: 1}).WithObservers(m)
	p.Run([]types.Item{item("1", 1, "https://a.com"), item("2", 0, "https://b.com")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageItems.WithLabelValues("input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageItems.WithLabelValues("unique")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
}
