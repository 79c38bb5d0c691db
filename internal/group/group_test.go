// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package group

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spug/newsletter/pkg/types"
)

func itemAt(id int, created time.Time, engagement int) types.Item {
	return types.Item{
		ID:              types.IDFromUint64(uint64(id)),
		CreatedAt:       created,
		EngagementCount: engagement,
	}
}

func ids(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID.String()
	}
	return out
}

func day(d, hour int) time.Time {
	return time.Date(2017, 3, d, hour, 0, 0, 0, time.UTC)
}

// --- ByDay ---

func TestByDay(t *testing.T) {
	in := []types.Item{
		itemAt(1, day(3, 10), 9),
		itemAt(2, day(1, 23), 8),
		itemAt(3, day(3, 1), 7),
		itemAt(4, day(2, 0), 6),
		itemAt(5, day(1, 0), 5),
	}
	buckets := ByDay(in)

	require.Len(t, buckets, 3)
	assert.Equal(t, day(1, 0), buckets[0].Day)
	assert.Equal(t, []string{"2", "5"}, ids(buckets[0].Items))
	assert.Equal(t, day(2, 0), buckets[1].Day)
	assert.Equal(t, []string{"4"}, ids(buckets[1].Items))
	assert.Equal(t, day(3, 0), buckets[2].Day)
	assert.Equal(t, []string{"1", "3"}, ids(buckets[2].Items))
}

func TestByDayUsesUTC(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)
	// 2017-03-01 20:00 PST is 2017-03-02 04:00 UTC.
	buckets := ByDay([]types.Item{itemAt(1, time.Date(2017, 3, 1, 20, 0, 0, 0, pst), 0)})
	require.Len(t, buckets, 1)
	assert.Equal(t, day(2, 0), buckets[0].Day)
}

func TestByDayIsPartition(t *testing.T) {
	var in []types.Item
	for i := 0; i < 40; i++ {
		in = append(in, itemAt(i+1, day(1, 0).Add(time.Duration(i*7)*time.Hour), i%4))
	}
	buckets := ByDay(in)

	seen := map[string]int{}
	days := map[time.Time]bool{}
	for _, b := range buckets {
		assert.False(t, days[b.Day], "day %s appears twice", b.Day)
		days[b.Day] = true
		for _, it := range b.Items {
			seen[it.ID.String()]++
			assert.Equal(t, b.Day, it.Day())
		}
	}
	assert.Len(t, seen, len(in))
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %s", id)
	}
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].Day.Before(buckets[i].Day))
	}
}

func TestByDayEmpty(t *testing.T) {
	assert.Empty(t, ByDay(nil))
}

// --- RoundRobin ---

func TestRoundRobinAssignsInOrder(t *testing.T) {
	in := []types.Item{
		itemAt(1, day(1, 0), 9),
		itemAt(2, day(1, 0), 8),
		itemAt(3, day(1, 0), 7),
		itemAt(4, day(1, 0), 6),
		itemAt(5, day(1, 0), 5),
	}
	buckets, err := RoundRobin(in, []string{"Dmitry", "Alex"})
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Dmitry", buckets[0].Reviewer)
	assert.Equal(t, []string{"1", "3", "5"}, ids(buckets[0].Items))
	assert.Equal(t, "Alex", buckets[1].Reviewer)
	assert.Equal(t, []string{"2", "4"}, ids(buckets[1].Items))
}

func TestRoundRobinSortsEachBucket(t *testing.T) {
	// Input is deliberately not ranked: the buckets are still sorted.
	in := []types.Item{
		itemAt(1, day(1, 0), 1),
		itemAt(2, day(1, 0), 2),
		itemAt(3, day(1, 0), 5),
		itemAt(4, day(1, 0), 0),
		itemAt(5, day(1, 0), 5),
	}
	buckets, err := RoundRobin(in, []string{"Olya", "Andrew"})
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "5", "1"}, ids(buckets[0].Items))
	assert.Equal(t, []string{"2", "4"}, ids(buckets[1].Items))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(in), "input must not be reordered")
}

func TestRoundRobinIsBalanced(t *testing.T) {
	for _, tc := range []struct{ m, n int }{{0, 3}, {1, 5}, {7, 3}, {10, 5}, {23, 4}, {4, 7}} {
		t.Run(fmt.Sprintf("%d items %d reviewers", tc.m, tc.n), func(t *testing.T) {
			var in []types.Item
			for i := 0; i < tc.m; i++ {
				in = append(in, itemAt(i+1, day(1, 0), tc.m-i))
			}
			var reviewers []string
			for i := 0; i < tc.n; i++ {
				reviewers = append(reviewers, "r"+strconv.Itoa(i))
			}

			buckets, err := RoundRobin(in, reviewers)
			require.NoError(t, err)

			floor, ceil := tc.m/tc.n, (tc.m+tc.n-1)/tc.n
			sizes := map[string]int{}
			seen := map[string]int{}
			for _, b := range buckets {
				sizes[b.Reviewer] = len(b.Items)
				for _, it := range b.Items {
					seen[it.ID.String()]++
				}
			}
			for _, r := range reviewers {
				got := sizes[r]
				assert.True(t, got == floor || got == ceil, "reviewer %s got %d items", r, got)
			}
			assert.Len(t, seen, tc.m)
			for id, n := range seen {
				assert.Equal(t, 1, n, "item %s", id)
			}
		})
	}
}

func TestRoundRobinNoReviewers(t *testing.T) {
	_, err := RoundRobin([]types.Item{itemAt(1, day(1, 0), 0)}, nil)
	assert.ErrorIs(t, err, ErrNoReviewers)
}
