// Package router sets up all HTTP routes and middleware chains for the
// Lokaal server. It organizes routes into the public API, the
// session-gated admin API, the crawler endpoints, and the SPA shell.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lokaal/internal/handlers"
	"lokaal/internal/indexnow"
	"lokaal/internal/middleware"
	"lokaal/internal/seo"
	"lokaal/internal/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Sessions   *session.Store
	Locations  *handlers.Locations
	Categories *handlers.Categories
	Ticker     *handlers.Ticker
	Tips       *handlers.Tips
	Auth       *handlers.Auth
	Objects    *handlers.Objects
	Newsletter *handlers.Newsletter
	Social     *handlers.Social

	Injector *seo.Injector
	Sitemap  http.HandlerFunc
	Robots   http.HandlerFunc
	IndexNow *indexnow.Client

	// Shell serves the embedded SPA document for every non-API path.
	Shell http.HandlerFunc
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check.
	r.Get("/health", healthHandler)

	// Login attempts are rate-limited per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Auth.
		r.With(loginLimiter.Middleware).Post("/auth/login", d.Auth.Login)
		r.Post("/auth/logout", d.Auth.Logout)
		r.Get("/auth/user", d.Auth.User)

		// Public catalog reads.
		r.Get("/locations", d.Locations.List)
		r.Get("/locations/search", d.Locations.Search)
		r.Get("/locations/featured", d.Locations.Featured)
		r.Get("/locations/trending", d.Locations.Trending)
		r.Get("/locations/by-tag/{tag}", d.Locations.ByTag)
		r.Get("/locations/by-slug/{slug}", d.Locations.BySlug)
		r.Get("/locations/{id}", d.Locations.ByID)
		r.Get("/locations/{id}/related", d.Locations.Related)
		r.Get("/locations/{id}/insider-tips", d.Tips.ByLocation)
		r.Get("/tags", d.Locations.PopularTags)
		r.Get("/categories", d.Categories.List)
		r.Get("/categories/{id}", d.Categories.Get)
		r.Get("/ticker", d.Ticker.Active)

		// Newsletter proxy.
		r.Post("/newsletter/subscribe", d.Newsletter.Subscribe)

		// Session-gated writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/locations", d.Locations.Create)
			r.Put("/locations/{id}", d.Locations.Update)
			r.Delete("/locations/{id}", d.Locations.Delete)
			r.Post("/locations/image", d.Objects.RegisterImage)

			r.Post("/categories", d.Categories.Create)
			r.Put("/categories/{id}", d.Categories.Update)
			r.Delete("/categories/{id}", d.Categories.Delete)

			r.Post("/objects/upload", d.Objects.Upload)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/ticker", d.Ticker.All)
				r.Post("/ticker", d.Ticker.Create)
				r.Put("/ticker/{id}", d.Ticker.Update)
				r.Delete("/ticker/{id}", d.Ticker.Delete)

				r.Post("/insider-tips", d.Tips.Create)
				r.Put("/insider-tips/{id}", d.Tips.Update)
				r.Delete("/insider-tips/{id}", d.Tips.Delete)

				r.Post("/social-trends/refresh", d.Social.Refresh)
			})
		})
	})

	// Crawler endpoints, outside the injector.
	r.Get("/sitemap.xml", d.Sitemap)
	r.Get("/robots.txt", d.Robots)
	r.Get("/{key:[a-f0-9]+}.txt", keyFileHandler(d.IndexNow))

	// Everything else is the SPA shell, rewritten per request.
	r.NotFound(d.Injector.Middleware(d.Shell).ServeHTTP)

	return r
}

// keyFileHandler serves the IndexNow ownership verification file, only
// when the requested key matches the configured one.
func keyFileHandler(client *indexnow.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := client.Key()
		if key == "" || chi.URLParam(r, "key") != key {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(key))
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
