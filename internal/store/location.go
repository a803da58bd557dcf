// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Lokaal entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lokaal/internal/models"
)

// LocationStore handles all location-related database operations,
// including the search/tag/featured query composition.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore creates a new LocationStore with the given database connection.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

const locationColumns = `id, slug, name, category, neighborhood, description, address,
	latitude, longitude, images, tags, featured, related_location_ids,
	instagram_hashtag, current_post_count, previous_post_count, trending_score,
	social_last_updated, created_at, updated_at`

// scanLocation scans a row into a Location struct.
func scanLocation(scanner interface{ Scan(...any) error }) (*models.Location, error) {
	var l models.Location
	err := scanner.Scan(
		&l.ID, &l.Slug, &l.Name, &l.Category, &l.Neighborhood, &l.Description,
		&l.Address, &l.Latitude, &l.Longitude,
		pq.Array(&l.Images), pq.Array(&l.Tags), &l.Featured,
		pq.Array(&l.RelatedLocationIDs),
		&l.InstagramHashtag, &l.CurrentPostCount, &l.PreviousPostCount,
		&l.TrendingScore, &l.SocialLastUpdated, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Arrays come back nil for empty; API consumers expect [] not null.
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.RelatedLocationIDs == nil {
		l.RelatedLocationIDs = []string{}
	}
	return &l, nil
}

// collectLocations drains rows into a slice of locations.
func collectLocations(rows *sql.Rows) ([]models.Location, error) {
	defer rows.Close()

	var items []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// List returns all locations in natural storage order.
func (s *LocationStore) List() ([]models.Location, error) {
	rows, err := s.db.Query(`SELECT ` + locationColumns + ` FROM locations`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return collectLocations(rows)
}

// FindByID retrieves a location by its UUID. Returns nil if not found.
func (s *LocationStore) FindByID(id uuid.UUID) (*models.Location, error) {
	row := s.db.QueryRow(`SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location by id: %w", err)
	}
	return l, nil
}

// FindBySlug retrieves a location by its slug. Returns nil if not found.
func (s *LocationStore) FindBySlug(slug string) (*models.Location, error) {
	row := s.db.QueryRow(`SELECT `+locationColumns+` FROM locations WHERE slug = $1`, slug)
	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location by slug: %w", err)
	}
	return l, nil
}

// FindByIDs retrieves locations whose id matches any of the given strings.
// Empty input returns an empty slice without touching the database; unknown
// ids are silently dropped. No result order is guaranteed.
func (s *LocationStore) FindByIDs(ids []string) ([]models.Location, error) {
	if len(ids) == 0 {
		return []models.Location{}, nil
	}

	rows, err := s.db.Query(`
		SELECT `+locationColumns+` FROM locations WHERE id::text = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find locations by ids: %w", err)
	}
	return collectLocations(rows)
}

// Related resolves a location's related_location_ids. A location with no
// related ids yields an empty slice, not an error.
func (s *LocationStore) Related(id uuid.UUID) ([]models.Location, error) {
	l, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	return s.FindByIDs(l.RelatedLocationIDs)
}

// Search returns locations where the query matches any of name, description,
// category, neighborhood, address, or any tag as a case-insensitive
// substring. A non-empty tag narrows the result to locations carrying that
// tag (case-insensitive exact match); the two filters are conjunctive.
func (s *LocationStore) Search(query, tag string) ([]models.Location, error) {
	pattern := "%" + query + "%"

	sqlQuery := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE (name ILIKE $1
			OR description ILIKE $1
			OR category ILIKE $1
			OR neighborhood ILIKE $1
			OR COALESCE(address, '') ILIKE $1
			OR EXISTS (
				SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1
			))`

	args := []any{pattern}
	if tag != "" {
		sqlQuery += `
			AND EXISTS (
				SELECT 1 FROM unnest(tags) AS t WHERE LOWER(t) = LOWER($2)
			)`
		args = append(args, tag)
	}

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	return collectLocations(rows)
}

// ByTag returns locations carrying the given tag. Comparison folds case on
// both sides, so ByTag("Coffee") and ByTag("coffee") are identical.
func (s *LocationStore) ByTag(tag string) ([]models.Location, error) {
	rows, err := s.db.Query(`
		SELECT `+locationColumns+`
		FROM locations
		WHERE EXISTS (
			SELECT 1 FROM unnest(tags) AS t WHERE LOWER(t) = LOWER($1)
		)
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("locations by tag: %w", err)
	}
	return collectLocations(rows)
}

// PopularTags returns distinct tags across all locations with the number of
// locations carrying each, sorted by count descending then tag ascending,
// truncated to limit.
func (s *LocationStore) PopularTags(limit int) ([]models.PopularTag, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT tag, COUNT(*) AS count
		FROM locations, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY count DESC, tag ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	defer rows.Close()

	var tags []models.PopularTag
	for rows.Next() {
		var t models.PopularTag
		if err := rows.Scan(&t.Tag, &t.Count); err != nil {
			return nil, fmt.Errorf("scan popular tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Featured returns featured locations paginated in natural storage order.
func (s *LocationStore) Featured(limit, offset int) ([]models.Location, error) {
	rows, err := s.db.Query(`
		SELECT `+locationColumns+`
		FROM locations WHERE featured = TRUE
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("featured locations: %w", err)
	}
	return collectLocations(rows)
}

// Create inserts a new location and returns it with generated fields.
func (s *LocationStore) Create(l *models.Location) (*models.Location, error) {
	row := s.db.QueryRow(`
		INSERT INTO locations (slug, name, category, neighborhood, description,
			address, latitude, longitude, images, tags, featured,
			related_location_ids, instagram_hashtag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+locationColumns,
		l.Slug, l.Name, l.Category, l.Neighborhood, l.Description,
		l.Address, l.Latitude, l.Longitude,
		pq.Array(l.Images), pq.Array(l.Tags), l.Featured,
		pq.Array(l.RelatedLocationIDs), l.InstagramHashtag,
	)
	result, err := scanLocation(row)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return result, nil
}

// Update replaces a location's curated fields. Social counters are managed
// separately through UpdateSocialData.
func (s *LocationStore) Update(l *models.Location) (*models.Location, error) {
	row := s.db.QueryRow(`
		UPDATE locations SET
			slug = $1, name = $2, category = $3, neighborhood = $4,
			description = $5, address = $6, latitude = $7, longitude = $8,
			images = $9, tags = $10, featured = $11,
			related_location_ids = $12, instagram_hashtag = $13,
			updated_at = NOW()
		WHERE id = $14
		RETURNING `+locationColumns,
		l.Slug, l.Name, l.Category, l.Neighborhood,
		l.Description, l.Address, l.Latitude, l.Longitude,
		pq.Array(l.Images), pq.Array(l.Tags), l.Featured,
		pq.Array(l.RelatedLocationIDs), l.InstagramHashtag, l.ID,
	)
	result, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return result, nil
}

// Delete removes a location by ID. Insider tips cascade at the schema
// level; related_location_ids entries pointing here are left dangling.
func (s *LocationStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// ReassignCategory updates every location whose category string equals old
// to the new name. Called from CategoryStore.Rename inside its transaction.
func reassignCategory(tx *sql.Tx, oldName, newName string) error {
	_, err := tx.Exec(`
		UPDATE locations SET category = $1, updated_at = NOW() WHERE category = $2
	`, newName, oldName)
	if err != nil {
		return fmt.Errorf("reassign location category: %w", err)
	}
	return nil
}

// ListWithHashtags returns locations that have an Instagram hashtag
// configured, for the social-trend refresh.
func (s *LocationStore) ListWithHashtags() ([]models.Location, error) {
	rows, err := s.db.Query(`
		SELECT ` + locationColumns + `
		FROM locations
		WHERE instagram_hashtag IS NOT NULL AND instagram_hashtag <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("locations with hashtags: %w", err)
	}
	return collectLocations(rows)
}

// UpdateSocialData writes the post counters and trending score produced by
// a social-trend refresh pass.
func (s *LocationStore) UpdateSocialData(id uuid.UUID, u models.SocialUpdate) error {
	_, err := s.db.Exec(`
		UPDATE locations SET
			current_post_count = $1, previous_post_count = $2,
			trending_score = $3, social_last_updated = $4
		WHERE id = $5
	`, u.CurrentPostCount, u.PreviousPostCount, u.TrendingScore, u.SocialLastUpdated, id)
	if err != nil {
		return fmt.Errorf("update social data: %w", err)
	}
	return nil
}

// Trending returns the locations with the highest trending scores among
// those tracked on social media, most recently refreshed first on ties.
func (s *LocationStore) Trending(limit int) ([]models.Location, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(`
		SELECT `+locationColumns+`
		FROM locations
		WHERE instagram_hashtag IS NOT NULL AND instagram_hashtag <> ''
		ORDER BY trending_score DESC, social_last_updated DESC NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("trending locations: %w", err)
	}
	return collectLocations(rows)
}
