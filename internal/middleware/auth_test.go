package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lokaal/internal/session"
)

func TestRequireAuthWithoutSession(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a session")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/locations", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Unauthorized") {
		t.Errorf("body: got %q", rr.Body.String())
	}
}

func TestRequireAuthWithSession(t *testing.T) {
	data := &session.Data{UserID: uuid.New(), Username: "admin"}

	called := false
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if got := SessionFromCtx(r.Context()); got == nil || got.Username != "admin" {
			t.Errorf("session in handler: got %+v", got)
		}
	}))

	r := httptest.NewRequest("GET", "/api/locations", nil)
	r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)

	if !called {
		t.Fatal("handler should have run")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d", rr.Code)
	}
}

func TestSessionFromCtxEmpty(t *testing.T) {
	if got := SessionFromCtx(context.Background()); got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestLoadSessionStoreFailure(t *testing.T) {
	// Point the store at a dead address: Get fails, the request must
	// still reach the handler, unauthenticated.
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := session.NewStore(client, false)

	called := false
	h := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SessionFromCtx(r.Context()) != nil {
			t.Error("expected unauthenticated request on store failure")
		}
	}))

	r := httptest.NewRequest("GET", "/api/locations", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "deadbeef"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if !called {
		t.Fatal("request must proceed when the session store is down")
	}
}
