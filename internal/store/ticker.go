// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

// TickerStore manages homepage announcement ticker items.
type TickerStore struct {
	db *sql.DB
}

// NewTickerStore returns a new TickerStore.
func NewTickerStore(db *sql.DB) *TickerStore {
	return &TickerStore{db: db}
}

const tickerColumns = `id, title, category, link_url, priority, end_date, is_active, created_at`

// scanTickerItem scans a row into a TickerItem struct.
func scanTickerItem(scanner interface{ Scan(...any) error }) (*models.TickerItem, error) {
	var t models.TickerItem
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Category, &t.LinkURL,
		&t.Priority, &t.EndDate, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// collectTickerItems drains rows into a slice.
func collectTickerItems(rows *sql.Rows) ([]models.TickerItem, error) {
	defer rows.Close()

	var items []models.TickerItem
	for rows.Next() {
		t, err := scanTickerItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticker item: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// ListAll returns every ticker item, active or not, ordered by priority
// descending then creation date descending. Used by the admin surface.
func (s *TickerStore) ListAll() ([]models.TickerItem, error) {
	rows, err := s.db.Query(`
		SELECT ` + tickerColumns + `
		FROM ticker_items
		ORDER BY priority DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list ticker items: %w", err)
	}
	return collectTickerItems(rows)
}

// ListActive returns the items eligible for public display: the active
// flag is set and the end date, if any, has not passed.
func (s *TickerStore) ListActive() ([]models.TickerItem, error) {
	rows, err := s.db.Query(`
		SELECT ` + tickerColumns + `
		FROM ticker_items
		WHERE is_active = TRUE AND (end_date IS NULL OR end_date > NOW())
		ORDER BY priority DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list active ticker items: %w", err)
	}
	return collectTickerItems(rows)
}

// FindByID retrieves a ticker item by ID. Returns nil if not found.
func (s *TickerStore) FindByID(id uuid.UUID) (*models.TickerItem, error) {
	row := s.db.QueryRow(`SELECT `+tickerColumns+` FROM ticker_items WHERE id = $1`, id)
	t, err := scanTickerItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ticker item by id: %w", err)
	}
	return t, nil
}

// Create inserts a new ticker item and returns it.
func (s *TickerStore) Create(t *models.TickerItem) (*models.TickerItem, error) {
	row := s.db.QueryRow(`
		INSERT INTO ticker_items (title, category, link_url, priority, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tickerColumns,
		t.Title, t.Category, t.LinkURL, t.Priority, t.EndDate, t.IsActive,
	)
	result, err := scanTickerItem(row)
	if err != nil {
		return nil, fmt.Errorf("create ticker item: %w", err)
	}
	return result, nil
}

// Update replaces an existing ticker item's fields.
func (s *TickerStore) Update(t *models.TickerItem) (*models.TickerItem, error) {
	row := s.db.QueryRow(`
		UPDATE ticker_items SET
			title = $1, category = $2, link_url = $3, priority = $4,
			end_date = $5, is_active = $6
		WHERE id = $7
		RETURNING `+tickerColumns,
		t.Title, t.Category, t.LinkURL, t.Priority, t.EndDate, t.IsActive, t.ID,
	)
	result, err := scanTickerItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update ticker item: %w", err)
	}
	return result, nil
}

// Delete removes a ticker item by ID.
func (s *TickerStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM ticker_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticker item: %w", err)
	}
	return nil
}
