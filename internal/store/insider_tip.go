// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lokaal/internal/models"
)

// TipStore manages insider tips — FAQ-style notes attached to locations.
type TipStore struct {
	db *sql.DB
}

// NewTipStore returns a new TipStore.
func NewTipStore(db *sql.DB) *TipStore {
	return &TipStore{db: db}
}

const tipColumns = `id, location_id, question, answer, icon, images, sort_order, created_at, updated_at`

// scanTip scans a row into an InsiderTip struct.
func scanTip(scanner interface{ Scan(...any) error }) (*models.InsiderTip, error) {
	var t models.InsiderTip
	err := scanner.Scan(
		&t.ID, &t.LocationID, &t.Question, &t.Answer, &t.Icon,
		pq.Array(&t.Images), &t.SortOrder, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if t.Images == nil {
		t.Images = []string{}
	}
	return &t, nil
}

// ListByLocation returns a location's tips ordered by sort_order ascending,
// the display order.
func (s *TipStore) ListByLocation(locationID uuid.UUID) ([]models.InsiderTip, error) {
	rows, err := s.db.Query(`
		SELECT `+tipColumns+`
		FROM insider_tips
		WHERE location_id = $1
		ORDER BY sort_order ASC
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list insider tips: %w", err)
	}
	defer rows.Close()

	var items []models.InsiderTip
	for rows.Next() {
		t, err := scanTip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insider tip: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tip by ID. Returns nil if not found.
func (s *TipStore) FindByID(id uuid.UUID) (*models.InsiderTip, error) {
	row := s.db.QueryRow(`SELECT `+tipColumns+` FROM insider_tips WHERE id = $1`, id)
	t, err := scanTip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find insider tip by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tip and returns it.
func (s *TipStore) Create(t *models.InsiderTip) (*models.InsiderTip, error) {
	row := s.db.QueryRow(`
		INSERT INTO insider_tips (location_id, question, answer, icon, images, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tipColumns,
		t.LocationID, t.Question, t.Answer, t.Icon, pq.Array(t.Images), t.SortOrder,
	)
	result, err := scanTip(row)
	if err != nil {
		return nil, fmt.Errorf("create insider tip: %w", err)
	}
	return result, nil
}

// Update replaces an existing tip's fields.
func (s *TipStore) Update(t *models.InsiderTip) (*models.InsiderTip, error) {
	row := s.db.QueryRow(`
		UPDATE insider_tips SET
			question = $1, answer = $2, icon = $3, images = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+tipColumns,
		t.Question, t.Answer, t.Icon, pq.Array(t.Images), t.SortOrder, t.ID,
	)
	result, err := scanTip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update insider tip: %w", err)
	}
	return result, nil
}

// Delete removes a tip by ID.
func (s *TipStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM insider_tips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete insider tip: %w", err)
	}
	return nil
}
