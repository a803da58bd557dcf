// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders sets the baseline security headers on every response.
// The Permissions-Policy grants geolocation to the origin itself (the map
// view locates the visitor) and shuts off the capture devices and FLoC
// cohorts the site never uses.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// No MIME sniffing; the injector already sets exact content types.
		h.Set("X-Content-Type-Options", "nosniff")

		// Same-origin framing only.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// Full referrer within the origin, origin only across sites.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		h.Set("Permissions-Policy", "geolocation=(self), camera=(), microphone=(), interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
