// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"lokaal/internal/cache"
	"lokaal/internal/models"
	"lokaal/internal/store"
)

// Ticker groups the announcement ticker handlers: the public active feed
// and the admin CRUD behind /api/admin/ticker.
type Ticker struct {
	store *store.TickerStore
	cache *cache.ResponseCache
}

// NewTicker creates the ticker handler group.
func NewTicker(s *store.TickerStore, c *cache.ResponseCache) *Ticker {
	return &Ticker{store: s, cache: c}
}

type tickerInput struct {
	Title    string     `json:"title"`
	Category string     `json:"category"`
	LinkURL  *string    `json:"link_url"`
	Priority int        `json:"priority"`
	EndDate  *time.Time `json:"end_date"`
	IsActive bool       `json:"is_active"`
}

// validate returns the first problem with the payload, or "".
func (in *tickerInput) validate() string {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > 150 {
		return "Title must be 150 characters or fewer."
	}
	if !models.ValidTickerCategory(in.Category) {
		return "Unknown ticker category."
	}
	if in.Priority < 0 || in.Priority > 100 {
		return "Priority must be between 0 and 100."
	}
	return ""
}

// Active handles GET /api/ticker: items that are active and not expired,
// highest priority first. Cached briefly since the ticker renders on
// every page.
func (h *Ticker) Active(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if payload, ok := h.cache.Get(r.Context(), cache.KeyActiveTicker); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	items, err := h.store.ListActive()
	if err != nil {
		slog.Error("list active ticker failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			h.cache.Set(r.Context(), cache.KeyActiveTicker, payload)
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// All handles GET /api/admin/ticker: every item including inactive and
// expired ones, for the admin table.
func (h *Ticker) All(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll()
	if err != nil {
		slog.Error("list ticker failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/admin/ticker.
func (h *Ticker) Create(w http.ResponseWriter, r *http.Request) {
	var in tickerInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(&models.TickerItem{
		Title:    strings.TrimSpace(in.Title),
		Category: in.Category,
		LinkURL:  in.LinkURL,
		Priority: in.Priority,
		EndDate:  in.EndDate,
		IsActive: in.IsActive,
	})
	if err != nil {
		slog.Error("create ticker item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/ticker/{id}.
func (h *Ticker) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var in tickerInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.Update(&models.TickerItem{
		ID:       id,
		Title:    strings.TrimSpace(in.Title),
		Category: in.Category,
		LinkURL:  in.LinkURL,
		Priority: in.Priority,
		EndDate:  in.EndDate,
		IsActive: in.IsActive,
	})
	if err != nil {
		slog.Error("update ticker item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Ticker item not found.")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/ticker/{id}.
func (h *Ticker) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("ticker lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Ticker item not found.")
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete ticker item failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Ticker) invalidate(r *http.Request) {
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), cache.KeyActiveTicker)
	}
}
