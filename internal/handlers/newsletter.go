// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"lokaal/internal/newsletter"
)

// Newsletter groups the subscription proxy handler.
type Newsletter struct {
	client *newsletter.Client
}

// NewNewsletter creates the newsletter handler group. client may be nil.
func NewNewsletter(c *newsletter.Client) *Newsletter {
	return &Newsletter{client: c}
}

type subscribeInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Subscribe handles POST /api/newsletter/subscribe. Upstream failures map
// to a 502 so the form can distinguish them from validation errors.
func (h *Newsletter) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in subscribeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required.")
		return
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}

	err := h.client.Subscribe(r.Context(), in.Name, in.Email)
	switch {
	case errors.Is(err, newsletter.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Newsletter subscriptions are not configured.")
	case errors.Is(err, newsletter.ErrUpstream):
		slog.Error("newsletter subscription failed", "error", err)
		writeError(w, http.StatusBadGateway, "Failed to subscribe. Please try again later.")
	case err != nil:
		slog.Error("newsletter subscription failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed."})
	}
}
