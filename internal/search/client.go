// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search authenticates against the social search API and walks
// its result pages backwards with a max_id cursor, returning every post
// that matches a Query.
//
// The walk is strictly sequential: each request needs the minimum id of
// the previous page. A failure on any page aborts the search and the pages
// fetched so far are discarded.
package search

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/spug/newsletter/pkg/types"
)

const (
	// DefaultBaseURL is the API root.
	DefaultBaseURL = "https://api.twitter.com/"

	authEndpoint   = "oauth2/token"
	searchEndpoint = "1.1/search/tweets.json"
)

// AuthMode selects an authentication flow. Only application-only is
// supported.
type AuthMode int

const (
	AuthApplicationOnly AuthMode = iota
	AuthUserContext
)

// Session is an authenticated API session. It is written once by
// Authenticate and only read afterwards, so one Session may serve
// concurrent searches.
type Session struct {
	tokenType      string
	accessToken    string
	consumerKey    string
	consumerSecret string
}

// TokenType returns the token type reported by the token endpoint.
func (s *Session) TokenType() string { return s.tokenType }

func (s *Session) valid() bool { return s != nil && s.accessToken != "" }

// Client talks to the search API.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	// Signing selects bearer headers (default) or OAuth1 signatures.
	Signing types.SigningMode
	Logger  *slog.Logger
	// Now is the clock used to decide whether Until is today.
	Now func() time.Time
}

// NewClient returns a Client configured from cfg.
func NewClient(httpClient *http.Client, cfg types.SearchConfig, logger *slog.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		HTTP:      httpClient,
		BaseURL:   base,
		UserAgent: cfg.UserAgent,
		Signing:   cfg.Signing,
		Logger:    logger,
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) endpoint(path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + path
}

// tokenResponse is the token endpoint answer.
type tokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// Authenticate exchanges the consumer key and secret for a bearer token
// using the client-credentials flow.
func (c *Client) Authenticate(ctx context.Context, key, secret string, mode AuthMode) (*Session, error) {
	if mode != AuthApplicationOnly {
		return nil, ErrUnsupportedAuthMode
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(authEndpoint),
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: errors.New(readSnippet(resp.Body))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing token response: %w", err)}
	}
	if !strings.EqualFold(tr.TokenType, "bearer") || tr.AccessToken == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected token type %q", tr.TokenType)}
	}

	c.logger().Debug("authenticated", "token_type", tr.TokenType)
	return &Session{
		tokenType:      tr.TokenType,
		accessToken:    tr.AccessToken,
		consumerKey:    key,
		consumerSecret: secret,
	}, nil
}

// Search runs the query across every page and returns the items with the
// pages concatenated in reverse fetch order: the oldest page comes first,
// while items inside a page keep the API order.
func (c *Client) Search(ctx context.Context, s *Session, q Query) ([]types.Item, error) {
	pages, err := c.Pages(ctx, s, q)
	if err != nil {
		return nil, err
	}
	var items []types.Item
	for i := len(pages) - 1; i >= 0; i-- {
		items = append(items, pages[i].Items...)
	}
	return items, nil
}

// Pages runs the query and returns the pages in fetch order.
//
// Each page is requested with max_id set to one less than the minimum id
// seen so far. The walk ends when a page does not contain any id below the
// cursor it was requested with; that page is still part of the result.
func (c *Client) Pages(ctx context.Context, s *Session, q Query) ([]Page, error) {
	if !s.valid() {
		return nil, ErrNotAuthenticated
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var pages []Page
	for {
		if err := ctx.Err(); err != nil {
			return nil, &SearchError{Page: len(pages) + 1, Cursor: q.Cursor, Err: err}
		}

		page, err := c.fetch(ctx, s, q)
		if err != nil {
			return nil, &SearchError{Page: len(pages) + 1, Cursor: q.Cursor, Err: err}
		}
		pages = append(pages, page)

		prev := types.IDSentinel
		if q.Cursor != nil {
			prev = *q.Cursor
		}
		c.logger().Debug("search page",
			"page", len(pages), "max_id", cursorString(q.Cursor), "items", len(page.Items))

		lowest := page.MinID(prev)
		if lowest.Equal(prev) {
			return pages, nil
		}
		q = q.WithCursor(lowest.Pred())
	}
}

// fetch performs one search request.
func (c *Client) fetch(ctx context.Context, s *Session, q Query) (Page, error) {
	reqURL := c.endpoint(searchEndpoint) + "?" + q.values(c.now()).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.signedClient(ctx, s, req).Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("search API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("search API returned HTTP %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Page{}, fmt.Errorf("parsing search response: %w", err)
	}

	page := Page{Items: make([]types.Item, 0, len(sr.Statuses)), Metadata: sr.Metadata}
	for _, st := range sr.Statuses {
		it, err := st.toItem()
		if err != nil {
			return Page{}, err
		}
		page.Items = append(page.Items, it)
	}
	return page, nil
}

// signedClient authorizes req for the session. Bearer mode sets the header
// on req; OAuth1 mode returns a client that signs every request with the
// consumer credentials and the access token.
func (c *Client) signedClient(ctx context.Context, s *Session, req *http.Request) *http.Client {
	if c.Signing == types.SigningOAuth1 {
		cfg := oauth1.NewConfig(s.consumerKey, s.consumerSecret)
		ctx = context.WithValue(ctx, oauth1.HTTPClient, c.httpClient())
		return cfg.Client(ctx, oauth1.NewToken(s.accessToken, ""))
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	return c.httpClient()
}

func cursorString(id *types.ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
