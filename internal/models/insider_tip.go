// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// InsiderTip is a short FAQ-style note attached to a location. Tips are
// displayed ordered by SortOrder ascending and feed the FAQPage node of
// the location's structured data.
type InsiderTip struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Icon       string    `json:"icon"`
	Images     []string  `json:"images"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
