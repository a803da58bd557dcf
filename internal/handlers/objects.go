// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"lokaal/internal/storage"
	"lokaal/internal/store"
)

// allowedImageTypes are the content types accepted for uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/avif": true,
}

// Objects groups the object-storage handlers: presigned upload URLs and
// registration of uploaded images onto locations.
type Objects struct {
	storage   *storage.Client
	locations *store.LocationStore
}

// NewObjects creates the object handler group. storage may be nil, in
// which case both endpoints report that uploads are disabled.
func NewObjects(s *storage.Client, locations *store.LocationStore) *Objects {
	return &Objects{storage: s, locations: locations}
}

type uploadInput struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	FileURL   string `json:"file_url"`
}

// Upload handles POST /api/objects/upload (admin): issues a presigned PUT
// URL the browser uploads to directly, and the public URL the object will
// have once stored.
func (h *Objects) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	var in uploadInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.Filename) == "" {
		writeError(w, http.StatusBadRequest, "Filename is required.")
		return
	}
	if !allowedImageTypes[in.ContentType] {
		writeError(w, http.StatusBadRequest, "Unsupported content type.")
		return
	}

	uploadURL, key, err := h.storage.PresignUpload(r.Context(), in.Filename, in.ContentType)
	if err != nil {
		slog.Error("presign upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		UploadURL: uploadURL,
		Key:       key,
		FileURL:   h.storage.FileURL(key),
	})
}

type registerImageInput struct {
	LocationID string `json:"location_id"`
	FileURL    string `json:"file_url"`
}

// RegisterImage handles POST /api/locations/image (admin): appends an
// uploaded object's public URL to a location's image list. The URL must
// belong to this deployment's bucket.
func (h *Objects) RegisterImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured.")
		return
	}

	var in registerImageInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, ok := h.storage.ExtractKey(in.FileURL); !ok {
		writeError(w, http.StatusBadRequest, "File URL does not belong to this storage.")
		return
	}

	id, err := uuid.Parse(in.LocationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location id.")
		return
	}

	loc, err := h.locations.FindByID(id)
	if err != nil {
		slog.Error("location lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if loc == nil {
		writeError(w, http.StatusNotFound, "Location not found.")
		return
	}

	loc.Images = append(loc.Images, in.FileURL)
	updated, err := h.locations.Update(loc)
	if err != nil {
		slog.Error("register image failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
