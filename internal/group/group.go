// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package group partitions a curated item sequence two ways: by UTC
// calendar day for storage, and round robin across reviewers for review.
// Both views are read-only; the input slice is never modified.
package group

import (
	"errors"
	"slices"
	"time"

	"github.com/spug/newsletter/internal/curate"
	"github.com/spug/newsletter/pkg/types"
)

// ErrNoReviewers is returned by RoundRobin for an empty reviewer list.
var ErrNoReviewers = errors.New("no reviewers configured")

// DayBucket holds the items created on one UTC day.
type DayBucket struct {
	Day   time.Time
	Items []types.Item
}

// ReviewerBucket holds the items assigned to one reviewer.
type ReviewerBucket struct {
	Reviewer string
	Items    []types.Item
}

// ByDay buckets items by the UTC day of CreatedAt. Items keep their input
// order within a bucket; buckets are ascending by day.
func ByDay(items []types.Item) []DayBucket {
	index := make(map[time.Time]int)
	var buckets []DayBucket
	for _, it := range items {
		day := it.Day()
		i, ok := index[day]
		if !ok {
			i = len(buckets)
			index[day] = i
			buckets = append(buckets, DayBucket{Day: day})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	slices.SortStableFunc(buckets, func(a, b DayBucket) int {
		return a.Day.Compare(b.Day)
	})
	return buckets
}

// RoundRobin assigns item i to reviewers[i mod N] in the given order, which
// is expected to be ranked already. Each bucket is then sorted by
// engagement, highest first. Buckets appear in first-assignment order;
// reviewers who receive nothing are left out.
func RoundRobin(items []types.Item, reviewers []string) ([]ReviewerBucket, error) {
	if len(reviewers) == 0 {
		return nil, ErrNoReviewers
	}

	index := make(map[string]int, len(reviewers))
	var buckets []ReviewerBucket
	for i, it := range items {
		name := reviewers[i%len(reviewers)]
		b, ok := index[name]
		if !ok {
			b = len(buckets)
			index[name] = b
			buckets = append(buckets, ReviewerBucket{Reviewer: name})
		}
		buckets[b].Items = append(buckets[b].Items, it)
	}

	for i := range buckets {
		curate.SortByEngagement(buckets[i].Items)
	}
	return buckets, nil
}
