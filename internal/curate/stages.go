// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curate

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/spug/newsletter/pkg/types"
)

// Rank sorts by engagement, highest first. The sort is stable: items with
// equal engagement keep their relative order.
func Rank() Stage {
	return Stage{Name: "rank", Apply: func(items []types.Item) []types.Item {
		out := slices.Clone(items)
		SortByEngagement(out)
		return out
	}}
}

// SortByEngagement stable-sorts items in place, highest engagement first.
func SortByEngagement(items []types.Item) {
	slices.SortStableFunc(items, func(a, b types.Item) int {
		return cmp.Compare(b.EngagementCount, a.EngagementCount)
	})
}

// Originality keeps original posts that carry a link: no replies, quotes
// or reposts.
func Originality() Stage {
	return Stage{Name: "originality", Apply: func(items []types.Item) []types.Item {
		return filter(items, isOriginal)
	}}
}

func isOriginal(it types.Item) bool {
	return !it.IsReply && it.ReplyTo == "" && !it.IsQuote && !it.IsRepost && len(it.URLs) > 0
}

// MinEngagement keeps items with at least threshold engagement.
func MinEngagement(threshold int) Stage {
	return Stage{Name: "min_engagement", Apply: func(items []types.Item) []types.Item {
		return filter(items, func(it types.Item) bool {
			return it.EngagementCount >= threshold
		})
	}}
}

// Unique keeps the first item seen for each canonical URL. Items without a
// URL have no key and are dropped.
func Unique() Stage {
	return Stage{Name: "unique", Apply: func(items []types.Item) []types.Item {
		seen := make(map[string]struct{}, len(items))
		var out []types.Item
		for _, it := range items {
			key, ok := CanonicalURL(it)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, it)
		}
		return out
	}}
}

// CanonicalURL returns the deduplication key of an item: the expanded form
// of its first URL, case-folded and without trailing slashes.
func CanonicalURL(it types.Item) (string, bool) {
	u, ok := it.FirstURL()
	if !ok {
		return "", false
	}
	key := strings.TrimRight(cases.Fold().String(strings.TrimSpace(u.Expanded)), "/")
	if key == "" {
		return "", false
	}
	return key, true
}

// ExcludeTerms drops items whose text contains any of terms, compared
// case-insensitively. It removes job offers and similar noise.
func ExcludeTerms(terms []string) Stage {
	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			folded = append(folded, cases.Fold().String(t))
		}
	}
	return Stage{Name: "exclude_terms", Apply: func(items []types.Item) []types.Item {
		return filter(items, func(it types.Item) bool {
			text := cases.Fold().String(it.Text)
			for _, t := range folded {
				if strings.Contains(text, t) {
					return false
				}
			}
			return true
		})
	}}
}

func filter(items []types.Item, keep func(types.Item) bool) []types.Item {
	var out []types.Item
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
