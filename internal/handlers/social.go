// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"lokaal/internal/social"
)

// Social groups the admin social-trend handlers.
type Social struct {
	updater *social.Updater
}

// NewSocial creates the social handler group.
func NewSocial(u *social.Updater) *Social {
	return &Social{updater: u}
}

// Refresh handles POST /api/admin/social-trends/refresh: runs the full
// batch synchronously and returns the summary. A 409 means a refresh is
// already in flight.
func (h *Social) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.updater.UpdateAll(r.Context())
	if err != nil {
		if errors.Is(err, social.ErrRefreshInProgress) {
			writeError(w, http.StatusConflict, "A refresh is already in progress.")
			return
		}
		slog.Error("social refresh aborted", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
