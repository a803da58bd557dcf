// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"lokaal/internal/middleware"
	"lokaal/internal/session"
	"lokaal/internal/store"
)

// Auth groups the session authentication handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{sessions: sessions, userStore: userStore}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionUser is the shape returned to the SPA for the current user.
type sessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Login handles POST /api/auth/login. Invalid credentials get the same
// message regardless of which part was wrong.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := a.userStore.FindByUsername(in.Username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, in.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, sessionUser{ID: user.ID.String(), Username: user.Username})
}

// Logout handles POST /api/auth/logout.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// User handles GET /api/auth/user: the current session's identity, or
// 401 when unauthenticated.
func (a *Auth) User(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, sessionUser{ID: sess.UserID.String(), Username: sess.Username})
}
