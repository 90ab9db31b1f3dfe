package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

type stravaSource struct {
	api     ActivityLister
	perPage int
}

// NewActivitySource creates an ActivitySource over the Strava API
func NewActivitySource(api ActivityLister, perPage int) ActivitySource {
	if perPage <= 0 {
		perPage = strava.DefaultPerPage
	}
	return &stravaSource{api: api, perPage: perPage}
}

// FetchActivities requests pages starting at 1 until Strava returns an empty
// one. onProgress, when set, is called with each page number before it is
// requested. Activities are returned in the order Strava sent them.
func (s *stravaSource) FetchActivities(ctx context.Context, accessToken string, from, to time.Time, onProgress func(page int)) ([]models.Activity, error) {
	all := make([]models.Activity, 0)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if onProgress != nil {
			onProgress(page)
		}

		body, err := s.api.ListActivities(ctx, accessToken, strava.ListParams{
			After:   from.Unix(),
			Before:  to.Unix(),
			Page:    page,
			PerPage: s.perPage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch activities page %d: %w", page, err)
		}
		stravaPagesFetched.Inc()

		var batch []models.Activity
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("failed to decode activities page %d: %w", page, err)
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}
}
