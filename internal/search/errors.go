// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"

	"github.com/spug/newsletter/pkg/types"
)

var (
	// ErrUnsupportedAuthMode is returned when any flow other than
	// application-only authentication is requested.
	ErrUnsupportedAuthMode = errors.New("only application-only authentication is supported")

	// ErrNotAuthenticated is returned by Search on a session that did not
	// come from a successful Authenticate call.
	ErrNotAuthenticated = errors.New("not authenticated: call Authenticate first")

	// ErrInvalidQuery is wrapped by Query.Validate failures.
	ErrInvalidQuery = errors.New("invalid search query")
)

// AuthError reports a rejected credential exchange.
type AuthError struct {
	// StatusCode is the HTTP status of the token endpoint, 0 when the
	// request never completed.
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (HTTP %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SearchError reports a failed page fetch. The whole search is abandoned;
// pages fetched before the failure are discarded.
type SearchError struct {
	// Page is the 1-based number of the page that failed.
	Page int
	// Cursor is the max_id sent with the failed request, nil for the first page.
	Cursor *types.ID
	Err    error
}

func (e *SearchError) Error() string {
	cursor := "none"
	if e.Cursor != nil {
		cursor = e.Cursor.String()
	}
	return fmt.Sprintf("search page %d (max_id %s): %v", e.Page, cursor, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }
