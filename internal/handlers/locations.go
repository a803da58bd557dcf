// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lokaal/internal/cache"
	"lokaal/internal/indexnow"
	"lokaal/internal/models"
	"lokaal/internal/slug"
	"lokaal/internal/store"
)

// Locations groups the public catalog reads and the admin location CRUD.
type Locations struct {
	store    *store.LocationStore
	cache    *cache.ResponseCache
	indexNow *indexnow.Client
}

// NewLocations creates the location handler group. indexNow may be nil.
func NewLocations(s *store.LocationStore, c *cache.ResponseCache, ix *indexnow.Client) *Locations {
	return &Locations{store: s, cache: c, indexNow: ix}
}

// locationInput is the JSON payload for create and update.
type locationInput struct {
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	Neighborhood       string   `json:"neighborhood"`
	Description        string   `json:"description"`
	Address            *string  `json:"address"`
	Latitude           string   `json:"latitude"`
	Longitude          string   `json:"longitude"`
	Images             []string `json:"images"`
	Tags               []string `json:"tags"`
	Featured           bool     `json:"featured"`
	RelatedLocationIDs []string `json:"related_location_ids"`
	InstagramHashtag   *string  `json:"instagram_hashtag"`
}

// validate returns the first problem with the payload, or "".
func (in *locationInput) validate() string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "Name is required."
	case strings.TrimSpace(in.Category) == "":
		return "Category is required."
	case strings.TrimSpace(in.Neighborhood) == "":
		return "Neighborhood is required."
	case strings.TrimSpace(in.Description) == "":
		return "Description is required."
	case strings.TrimSpace(in.Latitude) == "":
		return "Latitude is required."
	case strings.TrimSpace(in.Longitude) == "":
		return "Longitude is required."
	}
	return ""
}

// apply copies the payload onto a location record.
func (in *locationInput) apply(l *models.Location) {
	l.Name = strings.TrimSpace(in.Name)
	l.Category = strings.TrimSpace(in.Category)
	l.Neighborhood = strings.TrimSpace(in.Neighborhood)
	l.Description = in.Description
	l.Address = in.Address
	l.Latitude = strings.TrimSpace(in.Latitude)
	l.Longitude = strings.TrimSpace(in.Longitude)
	l.Images = orEmpty(in.Images)
	l.Tags = orEmpty(in.Tags)
	l.Featured = in.Featured
	l.RelatedLocationIDs = orEmpty(in.RelatedLocationIDs)
	l.InstagramHashtag = in.InstagramHashtag
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// List handles GET /api/locations.
func (h *Locations) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		slog.Error("list locations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Search handles GET /api/locations/search?q=&tag=.
func (h *Locations) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required.")
		return
	}
	items, err := h.store.Search(q, r.URL.Query().Get("tag"))
	if err != nil {
		slog.Error("search locations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ByTag handles GET /api/locations/by-tag/{tag}.
func (h *Locations) ByTag(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ByTag(chi.URLParam(r, "tag"))
	if err != nil {
		slog.Error("locations by tag failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// BySlug handles GET /api/locations/by-slug/{slug}.
func (h *Locations) BySlug(w http.ResponseWriter, r *http.Request) {
	loc, err := h.store.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		slog.Error("location by slug failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// Featured handles GET /api/locations/featured?limit=&offset=.
func (h *Locations) Featured(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	items, err := h.store.Featured(limit, offset)
	if err != nil {
		slog.Error("featured locations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Trending handles GET /api/locations/trending?limit=.
func (h *Locations) Trending(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Trending(queryInt(r, "limit", 5))
	if err != nil {
		slog.Error("trending locations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ByID handles GET /api/locations/{id}.
func (h *Locations) ByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	loc, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("location by id failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// Related handles GET /api/locations/{id}/related.
func (h *Locations) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.store.Related(id)
	if err != nil {
		slog.Error("related locations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if items == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// PopularTags handles GET /api/tags?limit=. The default-sized result is
// cached briefly since every page load requests it.
func (h *Locations) PopularTags(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	useCache := h.cache != nil && limit == 10
	if useCache {
		if payload, ok := h.cache.Get(r.Context(), cache.KeyPopularTags); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	tags, err := h.store.PopularTags(limit)
	if err != nil {
		slog.Error("popular tags failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if useCache {
		if payload, err := json.Marshal(tags); err == nil {
			h.cache.Set(r.Context(), cache.KeyPopularTags, payload)
		}
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create handles POST /api/locations (admin).
func (h *Locations) Create(w http.ResponseWriter, r *http.Request) {
	var in locationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	l := &models.Location{}
	in.apply(l)

	s, err := h.uniqueSlug(l.Name)
	if err != nil {
		slog.Error("slug generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	l.Slug = s

	created, err := h.store.Create(l)
	if err != nil {
		slog.Error("create location failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.invalidate(r)
	h.indexNow.NotifyLocation(created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/locations/{id} (admin). The slug is preserved
// so published URLs stay stable across renames.
func (h *Locations) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var in locationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("location lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}

	in.apply(existing)

	updated, err := h.store.Update(existing)
	if err != nil {
		slog.Error("update location failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}

	h.invalidate(r)
	h.indexNow.NotifyLocation(updated.Slug)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/locations/{id} (admin).
func (h *Locations) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.store.FindByID(id)
	if err != nil {
		slog.Error("location lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}

	if err := h.store.Delete(id); err != nil {
		slog.Error("delete location failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.invalidate(r)
	h.indexNow.NotifyLocation(existing.Slug)
	w.WriteHeader(http.StatusNoContent)
}

// uniqueSlug generates a slug from the name, suffixing a short random
// fragment when the plain slug is already taken.
func (h *Locations) uniqueSlug(name string) (string, error) {
	base := slug.Generate(name)
	existing, err := h.store.FindBySlug(base)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// invalidate drops cached aggregations touched by location mutations.
func (h *Locations) invalidate(r *http.Request) {
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), cache.KeyPopularTags)
	}
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id.")
		return uuid.Nil, false
	}
	return id, true
}
