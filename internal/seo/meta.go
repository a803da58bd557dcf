// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

// Fixed address components for JSON-LD postal addresses. Every curated
// location sits in the same region.
const (
	addressRegion  = "Western Cape"
	addressCountry = "ZA"
)

// maxDescriptionLen is the meta description limit; longer text is clipped
// to clipDescriptionLen characters plus an ellipsis.
const (
	maxDescriptionLen  = 160
	clipDescriptionLen = 157
)

// LocationSource is the subset of the location store the resolver reads.
type LocationSource interface {
	FindBySlug(slug string) (*models.Location, error)
	Related(id uuid.UUID) ([]models.Location, error)
}

// TipSource is the subset of the tip store the resolver reads.
type TipSource interface {
	ListByLocation(locationID uuid.UUID) ([]models.InsiderTip, error)
}

// PageMeta holds everything the injector splices into the shell for one
// location detail page. All string fields except URL, Image, and JSONLD
// are already HTML-escaped.
type PageMeta struct {
	Title       string
	Description string
	URL         string
	Image       string
	JSONLD      string

	Name         string
	Category     string
	Neighborhood string
	Address      string
	Tags         []string
	Tips         []models.InsiderTip
	Related      []models.Location
}

// Resolver assembles per-location page metadata for crawlers.
type Resolver struct {
	locations LocationSource
	tips      TipSource
	siteName  string
}

// NewResolver creates a meta resolver for the given stores.
func NewResolver(locations LocationSource, tips TipSource, siteName string) *Resolver {
	return &Resolver{locations: locations, tips: tips, siteName: siteName}
}

// ForLocation builds the page metadata for a location slug, or (nil, nil)
// when the slug is unknown. Callers swallow errors and fall through to the
// default shell; this method never has side effects.
func (r *Resolver) ForLocation(baseURL, slug string) (*PageMeta, error) {
	loc, err := r.locations.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("resolve location meta: %w", err)
	}
	if loc == nil {
		return nil, nil
	}

	tips, err := r.tips.ListByLocation(loc.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve location tips: %w", err)
	}

	related, err := r.locations.Related(loc.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve related locations: %w", err)
	}

	pageURL := baseURL + "/location/" + url.PathEscape(loc.Slug)

	image := baseURL + "/og-image.jpg"
	if len(loc.Images) > 0 {
		image = loc.Images[0]
	}

	jsonLD, err := buildJSONLD(loc, tips, pageURL, image)
	if err != nil {
		return nil, fmt.Errorf("build structured data: %w", err)
	}

	meta := &PageMeta{
		Title:        EscapeHTML(fmt.Sprintf("%s - %s in %s | %s", loc.Name, loc.Category, loc.Neighborhood, r.siteName)),
		Description:  EscapeHTML(TruncateDescription(loc.Description)),
		URL:          pageURL,
		Image:        image,
		JSONLD:       jsonLD,
		Name:         EscapeHTML(loc.Name),
		Category:     EscapeHTML(loc.Category),
		Neighborhood: EscapeHTML(loc.Neighborhood),
		Tags:         make([]string, 0, len(loc.Tags)),
		Tips:         tips,
		Related:      related,
	}
	if loc.Address != nil {
		meta.Address = EscapeHTML(*loc.Address)
	}
	for _, tag := range loc.Tags {
		meta.Tags = append(meta.Tags, EscapeHTML(tag))
	}

	return meta, nil
}

// HeadHTML renders the block spliced into the document head: title, meta
// description, canonical link, Open Graph/Twitter tags, and the JSON-LD
// script element.
func (m *PageMeta) HeadHTML() string {
	var b strings.Builder
	b.WriteString("<title>" + m.Title + "</title>\n")
	b.WriteString(`<meta name="description" content="` + m.Description + "\">\n")
	b.WriteString(`<link rel="canonical" href="` + EscapeHTML(m.URL) + "\">\n")
	b.WriteString(`<meta property="og:type" content="website">` + "\n")
	b.WriteString(`<meta property="og:title" content="` + m.Title + "\">\n")
	b.WriteString(`<meta property="og:description" content="` + m.Description + "\">\n")
	b.WriteString(`<meta property="og:image" content="` + EscapeHTML(m.Image) + "\">\n")
	b.WriteString(`<meta property="og:url" content="` + EscapeHTML(m.URL) + "\">\n")
	b.WriteString(`<meta name="twitter:card" content="summary_large_image">` + "\n")
	b.WriteString(`<meta name="twitter:title" content="` + m.Title + "\">\n")
	b.WriteString(`<meta name="twitter:description" content="` + m.Description + "\">\n")
	b.WriteString(`<meta name="twitter:image" content="` + EscapeHTML(m.Image) + "\">\n")
	b.WriteString(`<script type="application/ld+json">` + m.JSONLD + "</script>")
	return b.String()
}

// BodyHTML renders the server-side summary block spliced into the body so
// crawlers that don't execute JavaScript still see the page content. The
// client application replaces it once it mounts.
func (m *PageMeta) BodyHTML() string {
	var b strings.Builder
	b.WriteString(`<div id="ssr-content">` + "\n")
	b.WriteString("<h1>" + m.Name + "</h1>\n")
	b.WriteString(`<p><span class="category-badge">` + m.Category + "</span> " + m.Neighborhood + "</p>\n")
	b.WriteString("<p>" + m.Description + "</p>\n")
	if m.Address != "" {
		b.WriteString("<p>" + m.Address + "</p>\n")
	}
	if len(m.Tags) > 0 {
		b.WriteString("<p>")
		for i, tag := range m.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(`<span class="tag-chip">` + tag + "</span>")
		}
		b.WriteString("</p>\n")
	}
	if len(m.Tips) > 0 {
		b.WriteString("<dl>\n")
		for _, tip := range m.Tips {
			b.WriteString("<dt>" + EscapeHTML(tip.Question) + "</dt>\n")
			b.WriteString("<dd>" + EscapeHTML(tip.Answer) + "</dd>\n")
		}
		b.WriteString("</dl>\n")
	}
	if len(m.Related) > 0 {
		b.WriteString("<ul>\n")
		for _, rel := range m.Related {
			b.WriteString(`<li><a href="/location/` + EscapeHTML(url.PathEscape(rel.Slug)) + `">` + EscapeHTML(rel.Name) + "</a></li>\n")
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</div>")
	return b.String()
}

// TruncateDescription clips text over maxDescriptionLen characters to
// clipDescriptionLen plus an ellipsis. Counts runes, not bytes, so a
// multibyte character is never split at the clip point.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= maxDescriptionLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:clipDescriptionLen]) + "..."
}

// htmlEscaper covers the five characters that matter inside markup and
// attribute values.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML entity-escapes free text before it is embedded in markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// JSON-LD node types, serialized under a single @graph.
type jsonLDDocument struct {
	Context string `json:"@context"`
	Graph   []any  `json:"@graph"`
}

type localBusiness struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       []string        `json:"image"`
	Address     *postalAddress  `json:"address,omitempty"`
	Geo         *geoCoordinates `json:"geo,omitempty"`
	URL         string          `json:"url"`
}

type postalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	AddressCountry  string `json:"addressCountry"`
}

type geoCoordinates struct {
	Type      string `json:"@type"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type faqPage struct {
	Type       string     `json:"@type"`
	MainEntity []question `json:"mainEntity"`
}

type question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer answer `json:"acceptedAnswer"`
}

type answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// buildJSONLD composes the LocalBusiness node and, when the location has
// insider tips, an FAQPage node, under one @graph. The result is safe to
// embed in an inline script element.
func buildJSONLD(loc *models.Location, tips []models.InsiderTip, pageURL, fallbackImage string) (string, error) {
	images := loc.Images
	if len(images) == 0 {
		images = []string{fallbackImage}
	}

	business := localBusiness{
		Type:        "LocalBusiness",
		Name:        loc.Name,
		Description: loc.Description,
		Image:       images,
		Geo: &geoCoordinates{
			Type:      "GeoCoordinates",
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		},
		URL: pageURL,
	}
	if loc.Address != nil {
		business.Address = &postalAddress{
			Type:            "PostalAddress",
			StreetAddress:   *loc.Address,
			AddressLocality: loc.Neighborhood,
			AddressRegion:   addressRegion,
			AddressCountry:  addressCountry,
		}
	}

	graph := []any{business}

	if len(tips) > 0 {
		faq := faqPage{Type: "FAQPage", MainEntity: make([]question, 0, len(tips))}
		for _, tip := range tips {
			faq.MainEntity = append(faq.MainEntity, question{
				Type:           "Question",
				Name:           tip.Question,
				AcceptedAnswer: answer{Type: "Answer", Text: tip.Answer},
			})
		}
		graph = append(graph, faq)
	}

	doc := jsonLDDocument{Context: "https://schema.org", Graph: graph}

	// json.Marshal already escapes <, >, and & to their \u forms. Single
	// quotes additionally become their \u form so the payload can never
	// terminate the surrounding script element or an enclosing attribute.
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(payload), "'", `\u0027`), nil
}
