package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheTTL is used when no TTL is configured
	DefaultCacheTTL = 300 * time.Second

	// MinCacheTTL and MaxCacheTTL bound the configurable TTL
	MinCacheTTL = 30 * time.Second
	MaxCacheTTL = 86400 * time.Second

	// DefaultHTTPTimeout bounds every outbound metadata request
	DefaultHTTPTimeout = 10 * time.Second

	maxDocumentBytes = 1 << 20
)

// FetchRecorder receives the outcome of every outbound metadata request
type FetchRecorder interface {
	RecordFetch(document string, err error, duration time.Duration)
}

type flightResult = singleflight.Result

type nopRecorder struct{}

func (nopRecorder) RecordFetch(string, error, time.Duration) {}

// fetchJSONObject performs a GET and returns the body, which must be a JSON object
func fetchJSONObject(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status code %d", ErrFetchFailed, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetchFailed, err)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil || object == nil {
		return nil, fmt.Errorf("%w: %s response was not a JSON object", ErrFetchFailed, url)
	}

	return body, nil
}

// awaitFlight waits for a shared fetch, giving up early when ctx is done.
// The fetch itself keeps running so a late result still lands in the cache.
func awaitFlight[T any](ctx context.Context, ch <-chan flightResult) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
