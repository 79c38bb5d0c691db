// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the newsletter curator.
// Items flow from the search client through the curation pipeline into the
// day and reviewer groupings; none of the stages modify an Item once the
// client has produced it.
package types

import "time"

// URL is one link entity attached to a post.
type URL struct {
	// Short is the t.co form that appears in Text.
	Short string `json:"url" yaml:"url"`

	// Expanded is the full target URL. It is the deduplication key.
	Expanded string `json:"expanded_url" yaml:"expanded_url"`

	// Display is the truncated form shown to readers.
	Display string `json:"display_url" yaml:"display_url"`
}

// Author identifies who wrote a post.
type Author struct {
	Name       string `json:"name" yaml:"name"`
	ScreenName string `json:"screen_name" yaml:"screen_name"`
}

// Item is a single post returned by the search API.
type Item struct {
	ID        ID        `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Text      string    `json:"text" yaml:"text"`
	URLs      []URL     `json:"urls" yaml:"urls"`

	// EngagementCount is the repost count. It ranks items and drives the
	// minimum-engagement filter.
	EngagementCount int `json:"engagement_count" yaml:"engagement_count"`
	FavoriteCount   int `json:"favorite_count,omitempty" yaml:"favorite_count,omitempty"`

	// ReplyTo is the screen name the post replies to, if any.
	ReplyTo string `json:"reply_to,omitempty" yaml:"reply_to,omitempty"`

	IsReply  bool `json:"is_reply" yaml:"is_reply"`
	IsQuote  bool `json:"is_quote" yaml:"is_quote"`
	IsRepost bool `json:"is_repost" yaml:"is_repost"`

	Author Author `json:"author" yaml:"author"`
	Lang   string `json:"lang,omitempty" yaml:"lang,omitempty"`
}

// FirstURL returns the first link entity, which carries the deduplication
// key, and whether the item has one.
func (it Item) FirstURL() (URL, bool) {
	if len(it.URLs) == 0 {
		return URL{}, false
	}
	return it.URLs[0], true
}

// Day returns the UTC calendar day the item was created on.
func (it Item) Day() time.Time {
	t := it.CreatedAt.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
