// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"lokaal/internal/models"
	"lokaal/internal/store"
)

// Tips groups the insider-tip handlers: the public per-location list and
// the admin CRUD behind /api/admin/insider-tips.
type Tips struct {
	store     *store.TipStore
	locations *store.LocationStore
}

// NewTips creates the insider-tip handler group.
func NewTips(s *store.TipStore, locations *store.LocationStore) *Tips {
	return &Tips{store: s, locations: locations}
}

type tipInput struct {
	LocationID string   `json:"location_id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Icon       string   `json:"icon"`
	Images     []string `json:"images"`
	SortOrder  int      `json:"sort_order"`
}

// validate returns the first problem with the payload, or "".
func (in *tipInput) validate() string {
	if strings.TrimSpace(in.Question) == "" {
		return "Question is required."
	}
	if strings.TrimSpace(in.Answer) == "" {
		return "Answer is required."
	}
	if in.SortOrder < 0 || in.SortOrder > 100 {
		return "Sort order must be between 0 and 100."
	}
	return ""
}

// ByLocation handles GET /api/locations/{id}/insider-tips.
func (h *Tips) ByLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.store.ListByLocation(id)
	if err != nil {
		slog.Error("list insider tips failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if items == nil {
		items = []models.InsiderTip{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/admin/insider-tips.
func (h *Tips) Create(w http.ResponseWriter, r *http.Request) {
	var in tipInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	locID, err := uuid.Parse(in.LocationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location id.")
		return
	}

	loc, err := h.locations.FindByID(locID)
	if err != nil {
		slog.Error("location lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = "lightbulb"
	}

	created, err := h.store.Create(&models.InsiderTip{
		LocationID: locID,
		Question:   strings.TrimSpace(in.Question),
		Answer:     in.Answer,
		Icon:       icon,
		Images:     orEmpty(in.Images),
		SortOrder:  in.SortOrder,
	})
	if err != nil {
		slog.Error("create insider tip failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/insider-tips/{id}. The tip's location
// binding never changes after creation.
func (h *Tips) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var in tipInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = "lightbulb"
	}

	updated, err := h.store.Update(&models.InsiderTip{
		ID:        id,
		Question:  strings.TrimSpace(in.Question),
		Answer:    in.Answer,
		Icon:      icon,
		Images:    orEmpty(in.Images),
		SortOrder: in.SortOrder,
	})
	if err != nil {
		slog.Error("update insider tip failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Insider tip not found.")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/insider-tips/{id}.
func (h *Tips) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	tip, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("insider tip lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if tip == nil {
		writeError(w, http.StatusNotFound, "Insider tip not found.")
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete insider tip failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
