// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the HTTP client shared by the search client.
package httputil

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/spug/newsletter/pkg/types"
)

// RetryBaseDelay is the first backoff wait after a rate-limited response.
// Later waits double up to 16 times this value. Tests override it to avoid
// real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultTimeout = 30 * time.Second

// NewClient returns an *http.Client whose transport retries HTTP 429 and
// connection failures up to cfg.RetryMax times. With RetryMax zero every
// request is attempted exactly once. Once retries are exhausted the last
// response is returned unchanged so the caller can inspect its status.
func NewClient(cfg types.HTTPConfig, logger *slog.Logger) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: timeout}
	rc.RetryMax = max(cfg.RetryMax, 0)
	rc.RetryWaitMin = RetryBaseDelay
	rc.RetryWaitMax = 16 * RetryBaseDelay
	rc.CheckRetry = CheckRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if logger != nil {
		rc.Logger = logger
	}
	return rc.StandardClient()
}

// CheckRetry retries rate-limited responses and transport errors. Every
// other status, including 5xx, passes through to the caller.
func CheckRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}
