package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewWithoutKey(t *testing.T) {
	if c := New(""); c != nil {
		t.Error("expected nil client without an API key")
	}
}

func TestSubscribeNilClient(t *testing.T) {
	var c *Client
	if err := c.Subscribe(context.Background(), "Thandi", "thandi@example.com"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	var gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/contacts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New("secret-key")
	c.apiBase = srv.URL

	if err := c.Subscribe(context.Background(), "Thandi", "thandi@example.com"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("api-key header: got %q", gotKey)
	}
	if gotBody["email"] != "thandi@example.com" {
		t.Errorf("email: got %v", gotBody["email"])
	}
	attrs, _ := gotBody["attributes"].(map[string]any)
	if attrs["FIRSTNAME"] != "Thandi" {
		t.Errorf("attributes: got %v", gotBody["attributes"])
	}
	if gotBody["updateEnabled"] != true {
		t.Error("expected updateEnabled true")
	}
}

func TestSubscribeExistingContact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New("secret-key")
	c.apiBase = srv.URL

	if err := c.Subscribe(context.Background(), "Thandi", "thandi@example.com"); err != nil {
		t.Errorf("204 update should succeed, got %v", err)
	}
}

func TestSubscribeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"invalid_parameter"}`))
	}))
	defer srv.Close()

	c := New("secret-key")
	c.apiBase = srv.URL

	err := c.Subscribe(context.Background(), "Thandi", "not-an-email")
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}
