package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

func TestCalculateTrendingScore(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     float64
	}{
		{"no history, activity", 50, 0, 100},
		{"no history, no activity", 0, 0, 0},
		{"doubled", 200, 100, 100},
		{"halved", 50, 100, -50},
		{"unchanged", 100, 100, 0},
		{"dropped to zero", 0, 80, -100},
		{"fractional growth", 110, 100, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateTrendingScore(tt.current, tt.previous); got != tt.want {
				t.Errorf("CalculateTrendingScore(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

// fakeSocialStore is an in-memory LocationSocialStore recording updates.
type fakeSocialStore struct {
	locations []models.Location
	updates   map[uuid.UUID]models.SocialUpdate
	listErr   error
	updateErr map[uuid.UUID]error
}

func newFakeSocialStore(locations ...models.Location) *fakeSocialStore {
	return &fakeSocialStore{
		locations: locations,
		updates:   map[uuid.UUID]models.SocialUpdate{},
		updateErr: map[uuid.UUID]error{},
	}
}

func (f *fakeSocialStore) ListWithHashtags() ([]models.Location, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.locations, nil
}

func (f *fakeSocialStore) UpdateSocialData(id uuid.UUID, u models.SocialUpdate) error {
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.updates[id] = u
	return nil
}

func (f *fakeSocialStore) Trending(limit int) ([]models.Location, error) {
	if limit > len(f.locations) {
		limit = len(f.locations)
	}
	return f.locations[:limit], nil
}

func socialLocation(name, hashtag string, currentCount int) models.Location {
	var tag *string
	if hashtag != "" {
		tag = &hashtag
	}
	return models.Location{
		ID:               uuid.New(),
		Name:             name,
		Slug:             name,
		InstagramHashtag: tag,
		CurrentPostCount: currentCount,
	}
}

// testUpdater points the updater at a stub Apify server with no
// inter-fetch delay.
func testUpdater(store LocationSocialStore, serverURL string) *Updater {
	u := NewUpdater(store, "test-token")
	u.apiBase = serverURL
	u.delay = 0
	return u
}

func apifyStub(t *testing.T, handler func(hashtag string) (int, any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Hashtags []string `json:"hashtags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Hashtags) != 1 {
			t.Errorf("malformed scraper request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		status, body := handler(req.Hashtags[0])
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestFetchHashtagPostCount(t *testing.T) {
	srv := apifyStub(t, func(hashtag string) (int, any) {
		switch hashtag {
		case "truthcoffee":
			return http.StatusOK, []map[string]any{{"tagName": hashtag, "postsCount": 1234}}
		case "legacyshape":
			return http.StatusCreated, []map[string]any{
				{"tagName": hashtag, "edge_hashtag_to_media": map[string]any{"count": 77}},
			}
		case "nocount":
			return http.StatusOK, []map[string]any{{"tagName": hashtag}}
		case "empty":
			return http.StatusOK, []map[string]any{}
		default:
			return http.StatusPaymentRequired, map[string]string{"error": "quota exceeded"}
		}
	})
	defer srv.Close()

	u := testUpdater(newFakeSocialStore(), srv.URL)

	// Leading # stripped, tag lowercased.
	count, err := u.FetchHashtagPostCount(context.Background(), "#TruthCoffee")
	if err != nil {
		t.Fatalf("FetchHashtagPostCount: %v", err)
	}
	if count != 1234 {
		t.Errorf("count: got %d, want 1234", count)
	}

	count, err = u.FetchHashtagPostCount(context.Background(), "legacyshape")
	if err != nil {
		t.Fatalf("legacy shape: %v", err)
	}
	if count != 77 {
		t.Errorf("legacy count: got %d, want 77", count)
	}

	if _, err := u.FetchHashtagPostCount(context.Background(), "nocount"); err == nil {
		t.Error("expected error for item without a count")
	}
	if _, err := u.FetchHashtagPostCount(context.Background(), "empty"); err == nil {
		t.Error("expected error for empty dataset")
	}
	if _, err := u.FetchHashtagPostCount(context.Background(), "overquota"); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestFetchHashtagPostCountWithoutToken(t *testing.T) {
	u := NewUpdater(newFakeSocialStore(), "")
	if _, err := u.FetchHashtagPostCount(context.Background(), "anything"); err == nil {
		t.Error("expected error without a configured token")
	}
}

func TestUpdateAll(t *testing.T) {
	healthy := socialLocation("healthy", "#Healthy", 100)
	broken := socialLocation("broken", "brokentag", 10)
	silent := socialLocation("silent", "", 0)
	store := newFakeSocialStore(healthy, broken, silent)

	srv := apifyStub(t, func(hashtag string) (int, any) {
		if hashtag == "healthy" {
			return http.StatusOK, []map[string]any{{"tagName": hashtag, "postsCount": 150}}
		}
		return http.StatusInternalServerError, map[string]string{"error": "actor crashed"}
	})
	defer srv.Close()

	u := testUpdater(store, srv.URL)
	summary, err := u.UpdateAll(context.Background())
	if err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}

	if summary.Success != 1 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Errorf("summary: got %+v", summary)
	}
	if len(summary.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(summary.Results))
	}

	res := summary.Results[0]
	if res.LocationName != "healthy" || res.PreviousCount != 100 || res.CurrentCount != 150 {
		t.Errorf("result: got %+v", res)
	}
	if res.TrendingScore != 50 {
		t.Errorf("trending score: got %v, want 50", res.TrendingScore)
	}

	update, ok := store.updates[healthy.ID]
	if !ok {
		t.Fatal("expected social data written for healthy location")
	}
	if update.CurrentPostCount != 150 || update.PreviousPostCount != 100 {
		t.Errorf("stored update: got %+v", update)
	}
	if update.SocialLastUpdated.IsZero() {
		t.Error("expected refresh timestamp set")
	}
	if _, ok := store.updates[broken.ID]; ok {
		t.Error("failed fetch must not write social data")
	}
}

func TestUpdateAllStoreWriteFailure(t *testing.T) {
	loc := socialLocation("stubborn", "stubborn", 5)
	store := newFakeSocialStore(loc)
	store.updateErr[loc.ID] = fmt.Errorf("connection reset")

	srv := apifyStub(t, func(hashtag string) (int, any) {
		return http.StatusOK, []map[string]any{{"tagName": hashtag, "postsCount": 9}}
	})
	defer srv.Close()

	u := testUpdater(store, srv.URL)
	summary, err := u.UpdateAll(context.Background())
	if err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}
	if summary.Failed != 1 || summary.Success != 0 {
		t.Errorf("summary: got %+v", summary)
	}
}

func TestUpdateAllRejectsConcurrentRuns(t *testing.T) {
	u := testUpdater(newFakeSocialStore(), "http://unused.invalid")
	u.running.Store(true)

	if _, err := u.UpdateAll(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("expected ErrRefreshInProgress, got %v", err)
	}

	u.running.Store(false)
	if _, err := u.UpdateAll(context.Background()); err != nil {
		t.Errorf("expected refresh to run after previous one finished, got %v", err)
	}
}

func TestTrendingDefaultLimit(t *testing.T) {
	locations := make([]models.Location, 8)
	for i := range locations {
		locations[i] = socialLocation(fmt.Sprintf("loc-%d", i), "", 0)
	}
	u := NewUpdater(newFakeSocialStore(locations...), "")

	got, err := u.Trending(0)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("default limit: got %d locations, want 5", len(got))
	}

	got, err = u.Trending(3)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("explicit limit: got %d locations, want 3", len(got))
	}
}
