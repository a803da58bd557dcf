package seo

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

// fakeLocations backs the resolver with in-memory data.
type fakeLocations struct {
	bySlug  map[string]*models.Location
	related []models.Location
	err     error
}

func (f *fakeLocations) FindBySlug(slug string) (*models.Location, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySlug[slug], nil
}

func (f *fakeLocations) Related(id uuid.UUID) ([]models.Location, error) {
	return f.related, nil
}

type fakeTips struct {
	tips []models.InsiderTip
}

func (f *fakeTips) ListByLocation(locationID uuid.UUID) ([]models.InsiderTip, error) {
	return f.tips, nil
}

func testLocation() *models.Location {
	addr := "123 Long Street"
	return &models.Location{
		ID:           uuid.New(),
		Slug:         "truth-coffee",
		Name:         "Truth Coffee",
		Category:     "Cafe",
		Neighborhood: "CBD",
		Description:  "Steampunk roastery with serious espresso.",
		Address:      &addr,
		Latitude:     "-33.9285",
		Longitude:    "18.4108",
		Images:       []string{"https://cdn.example/truth.jpg"},
		Tags:         []string{"Coffee"},
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{`say "hi" & 'bye'`, "say &quot;hi&quot; &amp; &#039;bye&#039;"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeHTML(tt.in); got != tt.want {
			t.Errorf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateDescription(t *testing.T) {
	short := strings.Repeat("a", 160)
	if got := TruncateDescription(short); got != short {
		t.Errorf("expected 160-char text unchanged")
	}

	long := strings.Repeat("b", 161)
	got := TruncateDescription(long)
	if len(got) != 160 {
		t.Errorf("truncated length: got %d, want 160", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected ellipsis suffix")
	}
	if got[:157] != long[:157] {
		t.Error("expected first 157 characters preserved")
	}

	// A multibyte character at the clip point must not be split.
	multibyte := strings.Repeat("a", 156) + "é" + strings.Repeat("b", 10)
	got = TruncateDescription(multibyte)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 160 {
		t.Errorf("truncated rune count: got %d, want 160", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "é...") {
		t.Errorf("expected é preserved before ellipsis, got %q", got[150:])
	}

	// Rune count, not byte count, decides whether to clip at all.
	wide := strings.Repeat("é", 160)
	if got := TruncateDescription(wide); got != wide {
		t.Error("160-rune multibyte text must pass through unchanged")
	}
}

func TestForLocationMeta(t *testing.T) {
	loc := testLocation()
	r := NewResolver(
		&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}},
		&fakeTips{},
		"Lokaal",
	)

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if meta == nil {
		t.Fatal("expected meta for known slug")
	}

	wantTitle := "Truth Coffee - Cafe in CBD | Lokaal"
	if meta.Title != wantTitle {
		t.Errorf("title: got %q, want %q", meta.Title, wantTitle)
	}
	if meta.URL != "https://lokaal.example/location/truth-coffee" {
		t.Errorf("url: got %q", meta.URL)
	}
	if meta.Image != "https://cdn.example/truth.jpg" {
		t.Errorf("image: got %q", meta.Image)
	}
}

func TestForLocationUnknownSlug(t *testing.T) {
	r := NewResolver(&fakeLocations{bySlug: map[string]*models.Location{}}, &fakeTips{}, "Lokaal")
	meta, err := r.ForLocation("https://lokaal.example", "nope")
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if meta != nil {
		t.Error("expected nil meta for unknown slug")
	}
}

func TestForLocationImageFallback(t *testing.T) {
	loc := testLocation()
	loc.Images = []string{}
	r := NewResolver(&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}}, &fakeTips{}, "Lokaal")

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if meta.Image != "https://lokaal.example/og-image.jpg" {
		t.Errorf("fallback image: got %q", meta.Image)
	}
	if !strings.Contains(meta.JSONLD, "og-image.jpg") {
		t.Error("expected fallback image in structured data")
	}
}

func TestForLocationEscapesStoredMarkup(t *testing.T) {
	loc := testLocation()
	loc.Name = "<script>alert(1)</script>"
	r := NewResolver(&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}}, &fakeTips{}, "Lokaal")

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if strings.Contains(meta.Title, "<script>") || strings.Contains(meta.Name, "<script>") {
		t.Error("stored markup must be escaped in meta fields")
	}
	head := meta.HeadHTML()
	if strings.Contains(head, "<script>alert") {
		t.Error("stored markup leaked into head block")
	}
	if !strings.Contains(head, "&lt;script&gt;") {
		t.Error("expected entity-escaped markup in head block")
	}
}

func TestJSONLDWithTwoTips(t *testing.T) {
	loc := testLocation()
	tips := []models.InsiderTip{
		{Question: "Best time to visit?", Answer: "Early morning."},
		{Question: "Do they roast on site?", Answer: "Yes, daily."},
	}
	r := NewResolver(
		&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}},
		&fakeTips{tips: tips},
		"Lokaal",
	)

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}

	if got := strings.Count(meta.JSONLD, `"FAQPage"`); got != 1 {
		t.Errorf("FAQPage nodes: got %d, want 1", got)
	}
	if got := strings.Count(meta.JSONLD, `"Question"`); got != 2 {
		t.Errorf("Question nodes: got %d, want 2", got)
	}
	if !strings.Contains(meta.JSONLD, "Best time to visit?") {
		t.Error("expected first tip question verbatim")
	}
	if !strings.Contains(meta.JSONLD, "Yes, daily.") {
		t.Error("expected second tip answer verbatim")
	}
	if !strings.Contains(meta.JSONLD, `"LocalBusiness"`) {
		t.Error("expected LocalBusiness node")
	}
	if !strings.Contains(meta.JSONLD, `"Western Cape"`) {
		t.Error("expected fixed address region")
	}
}

func TestJSONLDWithoutTipsHasNoFAQ(t *testing.T) {
	loc := testLocation()
	r := NewResolver(&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}}, &fakeTips{}, "Lokaal")

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if strings.Contains(meta.JSONLD, "FAQPage") {
		t.Error("expected no FAQPage node without tips")
	}
}

func TestJSONLDScriptSafety(t *testing.T) {
	loc := testLocation()
	loc.Description = "</script><script>alert('x')</script>"
	r := NewResolver(&fakeLocations{bySlug: map[string]*models.Location{loc.Slug: loc}}, &fakeTips{}, "Lokaal")

	meta, err := r.ForLocation("https://lokaal.example", loc.Slug)
	if err != nil {
		t.Fatalf("ForLocation: %v", err)
	}
	if strings.Contains(meta.JSONLD, "</script>") {
		t.Error("closing script tag must not survive JSON-LD encoding")
	}
	if strings.Contains(meta.JSONLD, "'") {
		t.Error("single quotes must be unicode-escaped in JSON-LD")
	}
}
