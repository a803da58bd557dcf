// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package newsletter proxies subscription requests to the Brevo contacts
// API so the API key never reaches the browser.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.brevo.com"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("newsletter service not configured")

// ErrUpstream wraps any Brevo-side failure; handlers map it to a 502.
var ErrUpstream = errors.New("newsletter upstream error")

// Client subscribes contacts through Brevo.
type Client struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// New creates a Brevo client. Returns nil when apiKey is empty, which
// disables the subscribe endpoint.
func New(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:     apiKey,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Subscribe creates or updates a contact with the given name and email.
// Validation of both fields happens at the handler; this method only
// talks to the upstream.
func (c *Client) Subscribe(ctx context.Context, name, email string) error {
	if c == nil {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"email": email,
		"attributes": map[string]string{
			"FIRSTNAME": name,
		},
		"updateEnabled": true,
	})
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v3/contacts", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	// 201 created, 204 updated via updateEnabled.
	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(msg))
}
