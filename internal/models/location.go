// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Location represents a single point of interest: a cafe, restaurant,
// beach, hike, market, or bar. The category field is a soft reference to
// Category.Name; tags and images are stored denormalized as text arrays.
type Location struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Neighborhood string    `json:"neighborhood"`
	Description  string    `json:"description"`
	Address      *string   `json:"address,omitempty"`
	Latitude     string    `json:"latitude"`
	Longitude    string    `json:"longitude"`

	// Images are ordered; the first entry is the thumbnail and the
	// Open Graph image.
	Images []string `json:"images"`
	Tags   []string `json:"tags"`

	Featured bool `json:"featured"`

	// RelatedLocationIDs soft-references other locations. Entries may
	// dangle after a referenced location is deleted; readers resolve
	// them through FindByIDs, which drops unknown ids silently.
	RelatedLocationIDs []string `json:"related_location_ids"`

	// Social trend tracking, populated by the background refresh.
	InstagramHashtag  *string    `json:"instagram_hashtag,omitempty"`
	CurrentPostCount  int        `json:"current_post_count"`
	PreviousPostCount int        `json:"previous_post_count"`
	TrendingScore     float64    `json:"trending_score"`
	SocialLastUpdated *time.Time `json:"social_last_updated,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Thumbnail returns the first image URL, or empty when no images exist.
func (l *Location) Thumbnail() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// PopularTag is a derived aggregate: a tag and the number of locations
// carrying it.
type PopularTag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// SocialUpdate carries the fields written by the social-trend refresh.
type SocialUpdate struct {
	CurrentPostCount  int
	PreviousPostCount int
	TrendingScore     float64
	SocialLastUpdated time.Time
}
