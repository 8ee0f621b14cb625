// Package sources contains the external verification source adapters. Each
// adapter owns its upstream call shape (single keyword query, multi-step
// registry lookup, watchlist match) behind the uniform SourceAdapter port.
//
// Adapters never fail past their own boundary: transport errors, missing
// credentials and empty upstream results all surface as a typed absence so
// one broken source can never abort an investigation.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultFetchTimeout = 15 * time.Second

// httpDoer lets tests swap the transport without a real upstream.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON issues one GET and decodes the JSON body into out. Any non-2xx
// status is an error; callers translate errors into absence.
func getJSON(ctx context.Context, client httpDoer, rawURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
