// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"time"

	"github.com/spug/newsletter/pkg/types"
)

// Page is one search response. Items are newest-first as the API returns
// them.
type Page struct {
	Items    []types.Item
	Metadata Metadata
}

// MinID returns the smallest identifier on the page, starting the
// comparison at initial.
func (p Page) MinID(initial types.ID) types.ID {
	lowest := initial
	for _, it := range p.Items {
		if it.ID.Less(lowest) {
			lowest = it.ID
		}
	}
	return lowest
}

// Metadata is the search_metadata block. The client does not use it for
// pagination; it is kept for logging.
type Metadata struct {
	CompletedIn float64 `json:"completed_in"`
	MaxIDStr    string  `json:"max_id_str"`
	NextResults string  `json:"next_results"`
	Query       string  `json:"query"`
	Count       int     `json:"count"`
	SinceIDStr  string  `json:"since_id_str"`
}

// Search API JSON structures.
type searchResponse struct {
	Statuses []status `json:"statuses"`
	Metadata Metadata `json:"search_metadata"`
}

type status struct {
	CreatedAt string   `json:"created_at"`
	ID        types.ID `json:"id"`
	IDStr     string   `json:"id_str"`
	Text      string   `json:"text"`
	FullText  string   `json:"full_text"`
	Entities  struct {
		URLs []statusURL `json:"urls"`
	} `json:"entities"`
	RetweetCount         int    `json:"retweet_count"`
	FavoriteCount        int    `json:"favorite_count"`
	InReplyToStatusIDStr string `json:"in_reply_to_status_id_str"`
	InReplyToScreenName  string `json:"in_reply_to_screen_name"`
	IsQuoteStatus        bool   `json:"is_quote_status"`
	RetweetedStatus      *struct {
		IDStr string `json:"id_str"`
	} `json:"retweeted_status"`
	User struct {
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
	} `json:"user"`
	Lang string `json:"lang"`
}

type statusURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

// createdAtLayout is the API timestamp format, e.g.
// "Wed Mar 01 18:04:05 +0000 2017".
const createdAtLayout = time.RubyDate

// toItem converts a wire status. id_str wins over the numeric id.
func (s status) toItem() (types.Item, error) {
	id := s.ID
	if s.IDStr != "" {
		parsed, err := types.ParseID(s.IDStr)
		if err != nil {
			return types.Item{}, err
		}
		id = parsed
	}

	created, err := time.Parse(createdAtLayout, s.CreatedAt)
	if err != nil {
		return types.Item{}, fmt.Errorf("status %s: parsing created_at: %w", id, err)
	}

	text := s.Text
	if s.FullText != "" {
		text = s.FullText
	}

	it := types.Item{
		ID:              id,
		CreatedAt:       created.UTC(),
		Text:            text,
		EngagementCount: s.RetweetCount,
		FavoriteCount:   s.FavoriteCount,
		ReplyTo:         s.InReplyToScreenName,
		IsReply:         s.InReplyToStatusIDStr != "" || s.InReplyToScreenName != "",
		IsQuote:         s.IsQuoteStatus,
		IsRepost:        s.RetweetedStatus != nil,
		Author:          types.Author{Name: s.User.Name, ScreenName: s.User.ScreenName},
		Lang:            s.Lang,
	}
	for _, u := range s.Entities.URLs {
		it.URLs = append(it.URLs, types.URL{Short: u.URL, Expanded: u.ExpandedURL, Display: u.DisplayURL})
	}
	return it, nil
}
