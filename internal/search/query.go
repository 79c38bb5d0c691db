// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spug/newsletter/pkg/types"
)

// ResultType selects which results the API prefers.
type ResultType string

const (
	ResultRecent  ResultType = "recent"
	ResultPopular ResultType = "popular"
	ResultMixed   ResultType = "mixed"
)

// Filter restricts results by media or link type.
type Filter string

const (
	FilterNone        Filter = ""
	FilterSafe        Filter = "safe"
	FilterMedia       Filter = "media"
	FilterNativeVideo Filter = "native_video"
	FilterPeriscope   Filter = "periscope"
	FilterVine        Filter = "vine"
	FilterImages      Filter = "images"
	FilterTwimg       Filter = "twimg"
	FilterLinks       Filter = "links"
)

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

const dateFmt = "2006-01-02"

// Query describes one logical search. It is a value: pagination derives a
// copy per page with WithCursor and never mutates the original.
type Query struct {
	// Terms are combined with OR. Must not be empty.
	Terms      []string
	Lang       string
	ResultType ResultType
	PageSize   int
	// Since is the inclusive lower day bound; zero means unbounded.
	Since time.Time
	// Until is the exclusive upper day bound; zero or today means unbounded.
	Until  time.Time
	Filter Filter
	// Cursor is the max_id of a continuation request.
	Cursor *types.ID
}

// WithCursor returns a copy of q that continues at cursor.
func (q Query) WithCursor(cursor types.ID) Query {
	q.Terms = append([]string(nil), q.Terms...)
	q.Cursor = &cursor
	return q
}

// Validate checks the query against the API limits.
func (q Query) Validate() error {
	if len(q.Terms) == 0 {
		return fmt.Errorf("%w: no search terms", ErrInvalidQuery)
	}
	for _, t := range q.Terms {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: blank search term", ErrInvalidQuery)
		}
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d outside 1..%d", ErrInvalidQuery, q.PageSize, MaxPageSize)
	}
	switch q.ResultType {
	case ResultRecent, ResultPopular, ResultMixed:
	default:
		return fmt.Errorf("%w: unknown result type %q", ErrInvalidQuery, q.ResultType)
	}
	switch q.Filter {
	case FilterNone, FilterSafe, FilterMedia, FilterNativeVideo, FilterPeriscope,
		FilterVine, FilterImages, FilterTwimg, FilterLinks:
	default:
		return fmt.Errorf("%w: unknown filter %q", ErrInvalidQuery, q.Filter)
	}
	if !q.Since.IsZero() && !q.Until.IsZero() && q.Until.Before(q.Since) {
		return fmt.Errorf("%w: until %s is before since %s", ErrInvalidQuery,
			q.Until.Format(dateFmt), q.Since.Format(dateFmt))
	}
	return nil
}

// QueryFromConfig builds the query for a run starting at now. The day
// window counts back from today.
func QueryFromConfig(cfg types.SearchConfig, now time.Time) Query {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	q := Query{
		Terms:      append([]string(nil), cfg.Terms...),
		Lang:       cfg.Lang,
		ResultType: ResultType(cfg.ResultType),
		PageSize:   cfg.PageSize,
		Until:      today.AddDate(0, 0, -cfg.UntilDays),
		Filter:     Filter(cfg.Filter),
	}
	if cfg.SinceDays > 0 {
		q.Since = today.AddDate(0, 0, -cfg.SinceDays)
	}
	return q
}

// Text returns the query string sent as the q parameter.
func (q Query) Text() string { return buildQueryText(q.Terms) }

// values encodes q as search endpoint parameters. now decides whether
// Until falls on today, in which case the bound is sent empty.
func (q Query) values(now time.Time) url.Values {
	v := url.Values{
		"q":           {q.Text()},
		"lang":        {q.Lang},
		"result_type": {string(q.ResultType)},
		"count":       {strconv.Itoa(q.PageSize)},
		"until":       {untilParam(q.Until, now)},
		"since":       {""},
	}
	if !q.Since.IsZero() {
		v.Set("since", q.Since.Format(dateFmt))
	}
	if q.Filter != FilterNone {
		v.Set("filter", string(q.Filter))
	}
	if q.Cursor != nil {
		v.Set("max_id", q.Cursor.String())
	}
	return v
}

func untilParam(until, now time.Time) string {
	if until.IsZero() {
		return ""
	}
	u := until.In(now.Location())
	if u.Year() == now.Year() && u.YearDay() == now.YearDay() {
		return ""
	}
	return u.Format(dateFmt)
}

// buildQueryText ORs the terms together, quoting multi-word terms.
func buildQueryText(terms []string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if len(strings.Fields(t)) > 1 {
			t = `"` + t + `"`
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, " OR ")
}
