// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"lokaal/web"
)

// NewShell returns the catch-all handler for browser navigation: static
// assets are served from the embedded filesystem when the path resolves
// to a file, and every other path gets the SPA shell document. The shell
// still carries its placeholder tokens here; the SEO injector wrapping
// this handler fills them.
func NewShell() (http.HandlerFunc, error) {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("open static fs: %w", err)
	}

	shell, err := web.StaticFS.ReadFile(web.ShellPath)
	if err != nil {
		return nil, fmt.Errorf("read shell document: %w", err)
	}

	fileServer := http.FileServer(http.FS(sub))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path != "" && path != "index.html" {
			if f, err := sub.Open(path); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(shell)
	}, nil
}
