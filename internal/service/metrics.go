package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Review sources recorded by reviewsBuilt
const (
	sourceLive    = "live"
	sourceCache   = "cache"
	sourceOffline = "offline"
	sourceDemo    = "demo"
)

var (
	reviewsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yearinmotion_reviews_total",
			Help: "Reviews served, by where the data came from",
		},
		[]string{"source"},
	)

	stravaPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yearinmotion_strava_pages_fetched_total",
			Help: "Activity pages requested from Strava",
		},
	)

	paceSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yearinmotion_pace_skips_total",
			Help: "Runs left out of the fastest pace because moving time was zero",
		},
	)

	syncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yearinmotion_sync_sessions_total",
			Help: "Per-session background sync attempts, by result",
		},
		[]string{"result"},
	)

	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yearinmotion_sync_duration_seconds",
			Help:    "Wall time of a full sync pass",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)
