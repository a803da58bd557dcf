// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"lokaal/internal/models"
	"lokaal/internal/store"
)

// Categories groups the category read and admin CRUD handlers.
type Categories struct {
	store *store.CategoryStore
}

// NewCategories creates the category handler group.
func NewCategories(s *store.CategoryStore) *Categories {
	return &Categories{store: s}
}

type categoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	cat, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Create handles POST /api/categories (admin). Duplicate names get a 409.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	existing, err := h.store.FindByName(in.Name)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "A category with this name already exists.")
		return
	}

	created, err := h.store.Create(&models.Category{Name: in.Name, Description: in.Description})
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/categories/{id} (admin). A name change cascades
// to every location carrying the old category name, atomically.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var in categoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	// Reject a rename onto another category's name.
	existing, err := h.store.FindByName(in.Name)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if existing != nil && existing.ID != id {
		writeError(w, http.StatusConflict, "A category with this name already exists.")
		return
	}

	renamed, err := h.store.Rename(id, in.Name)
	if err != nil {
		slog.Error("rename category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if renamed == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	if in.Description != nil {
		renamed, err = h.store.UpdateDescription(id, in.Description)
		if err != nil {
			slog.Error("update category description failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	writeJSON(w, http.StatusOK, renamed)
}

// Delete handles DELETE /api/categories/{id} (admin).
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	cat, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if cat == nil {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
