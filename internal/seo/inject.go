// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Placeholder tokens in the application shell. Substitution consumes the
// token, so running the injector twice over the same document is a no-op.
const (
	BaseURLToken = "__BASE_URL__"
	HeadToken    = "<!--__SEO_HEAD__-->"
	BodyToken    = "<!--__SEO_BODY__-->"
)

// locationPath matches a location detail page path and captures the slug.
var locationPath = regexp.MustCompile(`^/location/([^/]+)$`)

// The shell's default title, meta description, and canonical link. They
// are removed before the per-location head block is spliced in, so the
// document never carries two titles or two conflicting canonicals.
var staticHeadTags = []*regexp.Regexp{
	regexp.MustCompile(`<title>[^<]*</title>\s*`),
	regexp.MustCompile(`<meta\s+name="description"[^>]*>\s*`),
	regexp.MustCompile(`<link\s+rel="canonical"[^>]*>\s*`),
}

// Injector rewrites the served application shell: it substitutes the
// base-URL placeholder with the resolved request origin and, on location
// detail pages, splices the resolved meta blocks into head and body.
// Responses that are not HTML pass through untouched, as do API and
// object-storage paths.
type Injector struct {
	resolver     *Resolver
	canonicalURL string
	production   bool
}

// NewInjector creates an injector around the given meta resolver.
func NewInjector(resolver *Resolver, canonicalURL string, production bool) *Injector {
	return &Injector{resolver: resolver, canonicalURL: canonicalURL, production: production}
}

// bufferingWriter holds the downstream response so it can be transformed
// before anything reaches the client.
type bufferingWriter struct {
	header     http.Header
	body       bytes.Buffer
	statusCode int
}

func (bw *bufferingWriter) Header() http.Header { return bw.header }

func (bw *bufferingWriter) WriteHeader(code int) {
	if bw.statusCode == 0 {
		bw.statusCode = code
	}
}

func (bw *bufferingWriter) Write(b []byte) (int, error) {
	if bw.statusCode == 0 {
		bw.statusCode = http.StatusOK
	}
	return bw.body.Write(b)
}

// Middleware wraps an http.Handler with the buffer, transform, emit pass.
func (inj *Injector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipPath(r.URL.Path) || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		bw := &bufferingWriter{header: make(http.Header)}
		next.ServeHTTP(bw, r)

		out := bw.body.Bytes()
		if isHTML(bw.header.Get("Content-Type")) {
			out = inj.transform(r, out)
		}

		h := w.Header()
		for k, v := range bw.header {
			h[k] = v
		}
		h.Set("Content-Length", strconv.Itoa(len(out)))

		code := bw.statusCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		w.Write(out)
	})
}

// transform performs the single substitution pass: base URL token first,
// then per-location meta splicing, then token cleanup so no placeholder
// ever reaches a client. Any resolver failure degrades to the default
// shell rather than failing the page request.
func (inj *Injector) transform(r *http.Request, doc []byte) []byte {
	baseURL := ResolveBaseURL(r, inj.canonicalURL, inj.production)
	doc = bytes.ReplaceAll(doc, []byte(BaseURLToken), []byte(baseURL))

	if m := locationPath.FindStringSubmatch(r.URL.Path); m != nil {
		slug, err := url.PathUnescape(m[1])
		if err != nil {
			slug = m[1]
		}
		meta, err := inj.resolver.ForLocation(baseURL, slug)
		if err != nil {
			slog.Warn("meta injection skipped", "slug", slug, "error", err)
		} else if meta != nil {
			for _, re := range staticHeadTags {
				if m := re.FindIndex(doc); m != nil {
					doc = append(doc[:m[0]], doc[m[1]:]...)
				}
			}
			doc = bytes.Replace(doc, []byte(HeadToken), []byte(meta.HeadHTML()), 1)
			doc = bytes.Replace(doc, []byte(BodyToken), []byte(meta.BodyHTML()), 1)
		}
	}

	// Consume any placeholder that was not filled.
	doc = bytes.ReplaceAll(doc, []byte(HeadToken), nil)
	doc = bytes.ReplaceAll(doc, []byte(BodyToken), nil)
	return doc
}

// skipPath reports whether the injector must leave the path alone.
func skipPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/objects/")
}

// isHTML reports whether a Content-Type denotes an HTML document.
func isHTML(contentType string) bool {
	return strings.Contains(contentType, "text/html")
}
