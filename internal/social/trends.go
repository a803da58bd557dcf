// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package social polls Instagram hashtag post counts through the Apify
// scraper API and maintains per-location trending scores. The refresh is
// an idempotent batch: one location failing never aborts the rest.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"lokaal/internal/models"
)

const (
	// apifyActorID is the hashtag scraper actor invoked synchronously.
	apifyActorID = "apify~instagram-hashtag-scraper"

	defaultAPIBase = "https://api.apify.com"

	// fetchDelay spaces out scraper calls so the batch stays under the
	// actor's rate limits.
	fetchDelay = time.Second
)

// ErrRefreshInProgress is returned when a batch is already running.
var ErrRefreshInProgress = errors.New("social trend refresh already in progress")

// LocationSocialStore is the subset of the location store the updater needs.
type LocationSocialStore interface {
	ListWithHashtags() ([]models.Location, error)
	UpdateSocialData(id uuid.UUID, u models.SocialUpdate) error
	Trending(limit int) ([]models.Location, error)
}

// Result records one location's refresh outcome.
type Result struct {
	LocationID    uuid.UUID `json:"location_id"`
	LocationName  string    `json:"location_name"`
	Hashtag       string    `json:"hashtag"`
	PreviousCount int       `json:"previous_count"`
	CurrentCount  int       `json:"current_count"`
	TrendingScore float64   `json:"trending_score"`
}

// BatchSummary aggregates a full refresh run.
type BatchSummary struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Results []Result `json:"results"`
}

// Updater fetches hashtag post counts and writes trending scores.
type Updater struct {
	store   LocationSocialStore
	token   string
	apiBase string
	client  *http.Client
	delay   time.Duration

	running atomic.Bool
}

// NewUpdater creates a social trend updater. token is the Apify API token;
// an empty token disables fetching (UpdateAll fails every item).
func NewUpdater(store LocationSocialStore, token string) *Updater {
	return &Updater{
		store:   store,
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 60 * time.Second},
		delay:   fetchDelay,
	}
}

// CalculateTrendingScore returns the percentage change between the
// previous and current post counts. With no previous data, any activity
// scores 100 and none scores 0.
func CalculateTrendingScore(currentCount, previousCount int) float64 {
	if previousCount == 0 {
		if currentCount > 0 {
			return 100
		}
		return 0
	}
	return float64(currentCount-previousCount) / float64(previousCount) * 100
}

// apifyItem is one dataset row from the hashtag scraper. Older actor
// versions nest the count under edge_hashtag_to_media.
type apifyItem struct {
	TagName    string `json:"tagName"`
	PostsCount *int   `json:"postsCount"`
	EdgeMedia  *struct {
		Count *int `json:"count"`
	} `json:"edge_hashtag_to_media"`
}

// FetchHashtagPostCount queries the scraper for one hashtag's total post
// count. The leading # is stripped and the tag lowercased before the call.
func (u *Updater) FetchHashtagPostCount(ctx context.Context, hashtag string) (int, error) {
	if u.token == "" {
		return 0, fmt.Errorf("apify token not configured")
	}

	clean := strings.ToLower(strings.TrimPrefix(hashtag, "#"))

	body, err := json.Marshal(map[string]any{
		"hashtags":     []string{clean},
		"resultsLimit": 1,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal apify request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s", u.apiBase, apifyActorID, u.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build apify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("apify request #%s: %w", clean, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("apify status %d for #%s: %s", resp.StatusCode, clean, string(msg))
	}

	var items []apifyItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return 0, fmt.Errorf("decode apify response #%s: %w", clean, err)
	}

	if len(items) > 0 {
		if items[0].PostsCount != nil {
			return *items[0].PostsCount, nil
		}
		if items[0].EdgeMedia != nil && items[0].EdgeMedia.Count != nil {
			return *items[0].EdgeMedia.Count, nil
		}
	}

	return 0, fmt.Errorf("no post count for #%s", clean)
}

// UpdateAll refreshes every location that has an Instagram hashtag.
// Failures are counted and logged per item; the batch always runs to
// completion. Concurrent invocations are rejected so an admin-triggered
// refresh cannot overlap the timer-driven one.
func (u *Updater) UpdateAll(ctx context.Context) (*BatchSummary, error) {
	if !u.running.CompareAndSwap(false, true) {
		return nil, ErrRefreshInProgress
	}
	defer u.running.Store(false)

	locations, err := u.store.ListWithHashtags()
	if err != nil {
		return nil, fmt.Errorf("list locations with hashtags: %w", err)
	}

	summary := &BatchSummary{Results: []Result{}}
	slog.Info("social trend refresh started", "locations", len(locations))

	for _, loc := range locations {
		if loc.InstagramHashtag == nil || *loc.InstagramHashtag == "" {
			summary.Skipped++
			continue
		}

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		current, err := u.FetchHashtagPostCount(ctx, *loc.InstagramHashtag)
		if err != nil {
			slog.Warn("hashtag fetch failed", "location", loc.Name, "error", err)
			summary.Failed++
			u.pause(ctx)
			continue
		}

		previous := loc.CurrentPostCount
		score := CalculateTrendingScore(current, previous)

		err = u.store.UpdateSocialData(loc.ID, models.SocialUpdate{
			CurrentPostCount:  current,
			PreviousPostCount: previous,
			TrendingScore:     score,
			SocialLastUpdated: time.Now(),
		})
		if err != nil {
			slog.Warn("social data update failed", "location", loc.Name, "error", err)
			summary.Failed++
			u.pause(ctx)
			continue
		}

		summary.Success++
		summary.Results = append(summary.Results, Result{
			LocationID:    loc.ID,
			LocationName:  loc.Name,
			Hashtag:       *loc.InstagramHashtag,
			PreviousCount: previous,
			CurrentCount:  current,
			TrendingScore: score,
		})
		slog.Info("social data updated",
			"location", loc.Name,
			"previous", previous,
			"current", current,
			"score", fmt.Sprintf("%.2f", score),
		)

		u.pause(ctx)
	}

	slog.Info("social trend refresh complete",
		"success", summary.Success,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// Trending returns the highest-scoring locations, default 5.
func (u *Updater) Trending(limit int) ([]models.Location, error) {
	if limit <= 0 {
		limit = 5
	}
	return u.store.Trending(limit)
}

// RunPeriodic refreshes on the given interval until the context ends.
// Wired from main when SOCIAL_REFRESH_INTERVAL is configured.
func (u *Updater) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := u.UpdateAll(ctx); err != nil {
				slog.Error("scheduled social refresh failed", "error", err)
			}
		}
	}
}

// pause waits the inter-fetch delay, returning early on cancellation.
func (u *Updater) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(u.delay):
	}
}
