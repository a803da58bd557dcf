// Package web provides the embedded single-page application shell and
// static assets. The shell carries placeholder tokens that the SEO
// injector fills per request before the document leaves the server.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. In Docker builds this
// includes the compiled client bundle next to index.html; in local
// development it may only contain the shell document.
//
//go:embed all:static
var StaticFS embed.FS

// ShellPath is the location of the SPA shell inside StaticFS.
const ShellPath = "static/index.html"
