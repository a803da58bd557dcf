// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo implements the crawler-facing rendering layer: per-location
// meta tags, JSON-LD structured data, shell rewriting, and the sitemap.
package seo

import (
	"net/http"
	"regexp"
	"strings"
)

// hostPattern validates a hostname with optional port. Rejects anything
// shaped like a header-injection payload before it reaches a canonical URL.
var hostPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*(:\d{1,5})?$`)

// ResolveBaseURL determines the public origin for the current request.
// In production the configured canonical URL is always used, so crawlers
// never see duplicate-content origins. In development the origin is
// derived from forwarding headers, with the host validated against
// hostPattern before use.
func ResolveBaseURL(r *http.Request, canonicalURL string, production bool) string {
	if production && canonicalURL != "" {
		return strings.TrimRight(canonicalURL, "/")
	}

	proto := firstForwarded(r.Header.Get("X-Forwarded-Proto"))
	if proto != "http" && proto != "https" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}

	host := firstForwarded(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}

	if !hostPattern.MatchString(host) {
		// Untrusted forwarded value: fall back to the host the server
		// itself resolved, and localhost as a last resort.
		host = r.Host
		if !hostPattern.MatchString(host) {
			host = "localhost"
		}
	}

	return proto + "://" + host
}

// firstForwarded takes the first value of a possibly comma-separated
// forwarding header.
func firstForwarded(v string) string {
	if idx := strings.IndexByte(v, ','); idx != -1 {
		v = v[:idx]
	}
	return strings.TrimSpace(v)
}
