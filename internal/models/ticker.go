// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticker categories accepted by the admin surface.
const (
	TickerCategoryNewSpots = "new-spots"
	TickerCategoryFeatured = "featured"
	TickerCategoryEvents   = "events"
	TickerCategoryTips     = "tips"
	TickerCategoryOffers   = "offers"
	TickerCategoryUpdates  = "updates"
	TickerCategorySeasonal = "seasonal"
)

// ValidTickerCategory reports whether c is one of the accepted ticker
// categories.
func ValidTickerCategory(c string) bool {
	switch c {
	case TickerCategoryNewSpots, TickerCategoryFeatured, TickerCategoryEvents,
		TickerCategoryTips, TickerCategoryOffers, TickerCategoryUpdates,
		TickerCategorySeasonal:
		return true
	}
	return false
}

// TickerItem is a timed homepage announcement. Priority runs 0-100 and
// orders the ticker descending; CreatedAt breaks ties.
type TickerItem struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	LinkURL  *string    `json:"link_url,omitempty"`
	Priority int        `json:"priority"`
	EndDate  *time.Time `json:"end_date,omitempty"`
	IsActive bool       `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

// DisplayableAt reports whether the item should be shown at the given
// time: the active flag is set and the end date, if any, has not passed.
func (t *TickerItem) DisplayableAt(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	return t.EndDate == nil || t.EndDate.After(now)
}
