// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package indexnow notifies search engines about created, updated, and
// deleted location pages through the IndexNow protocol. Submission is
// best-effort: failures are logged and never surfaced to the mutating
// request that triggered them.
package indexnow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.indexnow.org/indexnow"

// Client submits URLs to the IndexNow endpoint. A nil Client or one with
// an empty key is a no-op, so callers never need to branch on config.
type Client struct {
	key        string
	baseURL    string // canonical site base, e.g. https://lokaal.example
	host       string // host component of baseURL
	endpoint   string
	httpClient *http.Client
}

// New creates an IndexNow client for the given canonical base URL.
// Returns nil when key or baseURL is empty (submissions disabled).
func New(key, baseURL string) *Client {
	if key == "" || baseURL == "" {
		return nil
	}
	baseURL = strings.TrimRight(baseURL, "/")

	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &Client{
		key:        key,
		baseURL:    baseURL,
		host:       host,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Key returns the configured API key. Used by the router to serve the
// /{key}.txt ownership verification file.
func (c *Client) Key() string {
	if c == nil {
		return ""
	}
	return c.key
}

// LocationURL builds the canonical public URL for a location slug.
func (c *Client) LocationURL(slug string) string {
	return c.baseURL + "/location/" + url.PathEscape(slug)
}

// SubmitURL submits a single URL via the GET form of the protocol.
func (c *Client) SubmitURL(ctx context.Context, pageURL string) error {
	if c == nil {
		return nil
	}

	params := url.Values{}
	params.Set("url", pageURL)
	params.Set("key", c.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build indexnow request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit indexnow url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("indexnow status %d for %s", resp.StatusCode, pageURL)
	}

	slog.Info("indexnow url submitted", "url", pageURL, "status", resp.StatusCode)
	return nil
}

// SubmitURLs submits a batch of URLs via the POST form of the protocol.
func (c *Client) SubmitURLs(ctx context.Context, urls []string) error {
	if c == nil || len(urls) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"host":    c.host,
		"key":     c.key,
		"urlList": urls,
	})
	if err != nil {
		return fmt.Errorf("marshal indexnow payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build indexnow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit indexnow urls: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("indexnow status %d for %d urls", resp.StatusCode, len(urls))
	}

	slog.Info("indexnow urls submitted", "count", len(urls), "status", resp.StatusCode)
	return nil
}

// NotifyLocation submits a location page in the background after a
// create, update, or delete. Fire and forget.
func (c *Client) NotifyLocation(slug string) {
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := c.SubmitURL(ctx, c.LocationURL(slug)); err != nil {
			slog.Warn("indexnow notification failed", "slug", slug, "error", err)
		}
	}()
}
