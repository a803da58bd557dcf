package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

// newTestLocation builds a valid location with a unique slug. The suffix
// keeps parallel test data apart in a shared database.
func newTestLocation(suffix string) *models.Location {
	return &models.Location{
		Slug:               "test-spot-" + suffix,
		Name:               "Test Spot " + suffix,
		Category:           "Cafe",
		Neighborhood:       "Gardens",
		Description:        "A quiet test spot with strong coffee.",
		Latitude:           "-33.9285",
		Longitude:          "18.4108",
		Images:             []string{},
		Tags:               []string{},
		RelatedLocationIDs: []string{},
	}
}

func mustCreateLocation(t *testing.T, s *LocationStore, db *sql.DB, l *models.Location) *models.Location {
	t.Helper()
	t.Cleanup(func() { cleanLocations(t, db, l.Slug) })
	created, err := s.Create(l)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestLocationStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	loc := newTestLocation(suffix)
	loc.Tags = []string{"Coffee", "WiFi"}
	created := mustCreateLocation(t, s, db, loc)

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Slug != loc.Slug {
		t.Errorf("slug: got %q, want %q", created.Slug, loc.Slug)
	}
	if created.Images == nil || created.RelatedLocationIDs == nil {
		t.Error("expected empty arrays, not nil")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Name != created.Name {
		t.Fatalf("FindByID: got %+v", found)
	}

	bySlug, err := s.FindBySlug(loc.Slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug == nil || bySlug.ID != created.ID {
		t.Fatalf("FindBySlug: got %+v", bySlug)
	}

	missing, err := s.FindBySlug("no-such-slug-" + suffix)
	if err != nil {
		t.Fatalf("FindBySlug missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestLocationStoreSearch(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	loc := newTestLocation(suffix)
	loc.Name = "Cause Effect " + suffix
	loc.Category = "Bar"
	loc.Neighborhood = "CBD"
	loc.Tags = []string{"Cocktails", "Nightlife"}
	mustCreateLocation(t, s, db, loc)

	// Free-text match on the unique name fragment.
	results, err := s.Search(suffix, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != loc.Slug {
		t.Fatalf("Search: got %d results, want exactly the created location", len(results))
	}

	// Tag filter is conjunctive and case-insensitive.
	results, err = s.Search(suffix, "cocktails")
	if err != nil {
		t.Fatalf("Search with tag: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search with matching tag: got %d results, want 1", len(results))
	}

	results, err = s.Search(suffix, "Sushi")
	if err != nil {
		t.Fatalf("Search with tag: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Search with non-matching tag: got %d results, want 0", len(results))
	}

	// Tag text itself is searchable.
	results, err = s.Search("nightlife", "")
	if err != nil {
		t.Fatalf("Search by tag text: %v", err)
	}
	var seen bool
	for _, r := range results {
		if r.Slug == loc.Slug {
			seen = true
		}
	}
	if !seen {
		t.Error("expected tag text search to include the created location")
	}
}

func TestLocationStoreByTagAndPopularTags(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	tag := "TestTag" + suffix
	loc := newTestLocation(suffix)
	loc.Tags = []string{tag}
	mustCreateLocation(t, s, db, loc)

	results, err := s.ByTag(tag)
	if err != nil {
		t.Fatalf("ByTag: %v", err)
	}
	if len(results) != 1 || results[0].Slug != loc.Slug {
		t.Fatalf("ByTag: got %d results", len(results))
	}

	// Case-insensitive.
	results, err = s.ByTag("testtag" + suffix)
	if err != nil {
		t.Fatalf("ByTag lowercase: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("ByTag lowercase: got %d results, want 1", len(results))
	}

	tags, err := s.PopularTags(1000)
	if err != nil {
		t.Fatalf("PopularTags: %v", err)
	}
	var found *models.PopularTag
	for i := range tags {
		if tags[i].Tag == tag {
			found = &tags[i]
		}
	}
	if found == nil {
		t.Fatalf("PopularTags: tag %q not present", tag)
	}
	if found.Count != 1 {
		t.Errorf("PopularTags count: got %d, want 1", found.Count)
	}
	// Sorted by count descending.
	for i := 1; i < len(tags); i++ {
		if tags[i].Count > tags[i-1].Count {
			t.Fatalf("PopularTags not sorted by count at index %d", i)
		}
	}
}

func TestLocationStoreFindByIDsAndRelated(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	empty, err := s.FindByIDs(nil)
	if err != nil {
		t.Fatalf("FindByIDs empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("FindByIDs empty: got %v", empty)
	}

	suffix := uuid.NewString()[:8]
	a := mustCreateLocation(t, s, db, newTestLocation("a"+suffix))
	b := mustCreateLocation(t, s, db, newTestLocation("b"+suffix))

	c := newTestLocation("c" + suffix)
	c.RelatedLocationIDs = []string{a.ID.String(), b.ID.String()}
	created := mustCreateLocation(t, s, db, c)

	related, err := s.Related(created.ID)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("Related: got %d, want 2", len(related))
	}

	// Unknown location yields nil.
	related, err = s.Related(uuid.New())
	if err != nil {
		t.Fatalf("Related unknown: %v", err)
	}
	if related != nil {
		t.Error("expected nil related set for unknown location")
	}
}

func TestLocationStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	created := mustCreateLocation(t, s, db, newTestLocation(suffix))

	created.Name = "Renamed Spot"
	created.Featured = true
	created.Tags = []string{"Brunch"}
	updated, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed Spot" || !updated.Featured {
		t.Errorf("Update: got %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "Brunch" {
		t.Errorf("Update tags: got %v", updated.Tags)
	}

	// Updating a deleted row yields nil.
	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.Update(created)
	if err != nil {
		t.Fatalf("Update after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected nil updating a deleted location")
	}
}

func TestLocationStoreSocialData(t *testing.T) {
	db := testDB(t)
	s := NewLocationStore(db)

	suffix := uuid.NewString()[:8]
	hashtag := "#testspot" + suffix
	loc := newTestLocation(suffix)
	loc.InstagramHashtag = &hashtag
	created := mustCreateLocation(t, s, db, loc)

	withTags, err := s.ListWithHashtags()
	if err != nil {
		t.Fatalf("ListWithHashtags: %v", err)
	}
	var seen bool
	for _, l := range withTags {
		if l.ID == created.ID {
			seen = true
		}
	}
	if !seen {
		t.Fatal("expected location with hashtag in ListWithHashtags")
	}

	err = s.UpdateSocialData(created.ID, models.SocialUpdate{
		CurrentPostCount:  250,
		PreviousPostCount: 100,
		TrendingScore:     150,
		SocialLastUpdated: time.Now(),
	})
	if err != nil {
		t.Fatalf("UpdateSocialData: %v", err)
	}

	reloaded, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.CurrentPostCount != 250 || reloaded.PreviousPostCount != 100 {
		t.Errorf("social counts: got %d/%d", reloaded.CurrentPostCount, reloaded.PreviousPostCount)
	}
	if reloaded.TrendingScore != 150 {
		t.Errorf("trending score: got %v, want 150", reloaded.TrendingScore)
	}
	if reloaded.SocialLastUpdated == nil {
		t.Error("expected social_last_updated to be set")
	}

	trending, err := s.Trending(1000)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	for i := 1; i < len(trending); i++ {
		if trending[i].TrendingScore > trending[i-1].TrendingScore {
			t.Fatalf("Trending not sorted by score at index %d", i)
		}
	}
}
