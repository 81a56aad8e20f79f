// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file implements the catalog client itself. The client owns two
// operations: FetchPopularPage for the paginated popular listing, and
// FetchMovieDetail for the per-item enrichment lookup, which always
// requests the credits and keywords sub-resources in the same call so one
// round trip yields the full detail payload. Every request passes through
// the injected Gate before it is issued: with a burst of one the first
// request is free, and each subsequent request (the next detail, or the
// next page after a page's last detail) is spaced by the full cooldown.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cinefeed/movie-etl/internal/config"
)

// Client issues catalog API requests. It is safe for sequential use only;
// the pipeline never fetches concurrently, by contract with the external
// API's rate limits.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	gate       Gate
}

// NewClient creates a catalog client from configuration. The detail-request
// cooldown from the config becomes a fixed-interval gate.
func NewClient(cfg config.TMDB) *Client {
	return NewClientWithGate(cfg, NewFixedIntervalGate(cfg.RequestCooldown()))
}

// NewClientWithGate creates a catalog client with an explicit rate gate.
// Tests use this to substitute a fake gate and observe throttling calls.
func NewClientWithGate(cfg config.TMDB, gate Gate) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		gate: gate,
	}
}

// FetchPopularPage retrieves one page of the "popular movies" listing.
// The call waits on the rate gate first, so a page fetch that follows the
// previous page's last detail call still respects the cooldown. A network
// failure returns a *TransportError, a non-2xx response a *HTTPError; the
// caller decides whether either is fatal.
func (c *Client) FetchPopularPage(ctx context.Context, page int) ([]*ItemSummary, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}

	reqURL := fmt.Sprintf("%s/movie/popular?api_key=%s&page=%d",
		c.baseURL, url.QueryEscape(c.apiKey), page)

	var out popularPageResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// FetchMovieDetail retrieves the detail payload for a single movie with the
// credits and keywords sub-resources embedded. The call waits on the rate
// gate first, so consecutive detail fetches respect the configured cooldown
// regardless of the outcome of the previous request.
func (c *Client) FetchMovieDetail(ctx context.Context, id int64) (*ItemDetail, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, &TransportError{URL: c.baseURL, Err: err}
	}

	reqURL := fmt.Sprintf("%s/movie/%d?api_key=%s&append_to_response=credits,keywords",
		c.baseURL, id, url.QueryEscape(c.apiKey))

	out := &ItemDetail{}
	if err := c.getJSON(ctx, reqURL, out); err != nil {
		return nil, err
	}
	return out, nil
}

// getJSON performs a GET request and decodes the JSON body into result.
func (c *Client) getJSON(ctx context.Context, reqURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{URL: reqURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &TransportError{URL: reqURL, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}
	return nil
}
