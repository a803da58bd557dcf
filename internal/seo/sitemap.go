// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lokaal/internal/models"
)

// SitemapSource lists every location for sitemap generation.
type SitemapSource interface {
	List() ([]models.Location, error)
}

// staticPages are the crawlable non-detail pages with their priorities.
var staticPages = []struct {
	path       string
	priority   string
	changefreq string
}{
	{"/", "1.0", "daily"},
	{"/categories", "0.9", "daily"},
	{"/map", "0.9", "daily"},
}

// SitemapHandler serves /sitemap.xml generated from the location table.
// URLs always use the canonical base so crawlers index one origin.
func SitemapHandler(locations SitemapSource, canonicalURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := locations.List()
		if err != nil {
			slog.Error("sitemap generation failed", "error", err)
			http.Error(w, "Error generating sitemap", http.StatusInternalServerError)
			return
		}

		base := strings.TrimRight(canonicalURL, "/")
		now := time.Now().UTC().Format(time.RFC3339)

		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
		b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

		for _, page := range staticPages {
			writeURLEntry(&b, base+page.path, now, page.changefreq, page.priority)
		}

		for _, loc := range all {
			lastmod := loc.UpdatedAt.UTC().Format(time.RFC3339)
			writeURLEntry(&b, base+"/location/"+url.PathEscape(loc.Slug), lastmod, "weekly", "0.8")
		}

		b.WriteString("</urlset>")

		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(b.String()))
	}
}

func writeURLEntry(b *strings.Builder, loc, lastmod, changefreq, priority string) {
	b.WriteString("  <url>\n")
	b.WriteString("    <loc>" + EscapeHTML(loc) + "</loc>\n")
	b.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
	b.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
	b.WriteString("    <priority>" + priority + "</priority>\n")
	b.WriteString("  </url>\n")
}

// RobotsHandler serves /robots.txt pointing crawlers at the sitemap and
// away from the admin and API surfaces.
func RobotsHandler(siteName, canonicalURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := strings.TrimRight(canonicalURL, "/")

		var b strings.Builder
		b.WriteString("# " + siteName + "\n")
		b.WriteString("User-agent: *\n")
		b.WriteString("Allow: /\n")
		b.WriteString("Disallow: /admin/\n")
		b.WriteString("Disallow: /api/\n\n")
		b.WriteString("Sitemap: " + base + "/sitemap.xml\n")

		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(b.String()))
	}
}
