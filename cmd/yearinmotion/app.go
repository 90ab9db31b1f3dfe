package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/cache"
	"github.com/JonnyWalker81/yearinmotion/internal/config"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/notify"
	"github.com/JonnyWalker81/yearinmotion/internal/repository"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

// app holds the components shared by every subcommand
type app struct {
	cfg      *config.Config
	loc      *time.Location
	db       *sql.DB
	sessions repository.SessionRepository
	store    repository.ActivityRepository
	reviews  cache.ReviewCache
	source   service.ActivitySource

	authService   service.AuthService
	reviewService service.ReviewService
	syncService   service.SyncService
	notifier      *notify.Telegram

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.Default()

	loc, err := cfg.Review.Location()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, loc: loc}

	// Initialize database
	a.db, err = repository.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.db.Close)
	a.sessions = repository.NewSessionRepository(a.db)
	a.store = repository.NewActivityRepository(a.db)

	// Review cache, Redis when configured
	if cfg.Cache.RedisAddr != "" {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.Addr = cfg.Cache.RedisAddr
		cacheCfg.Password = cfg.Cache.RedisPassword
		cacheCfg.DB = cfg.Cache.RedisDB
		cacheCfg.TTL = cfg.Cache.TTL

		reviews, closeFn, err := cache.NewRedis(ctx, cacheCfg)
		if err != nil {
			a.close()
			return nil, err
		}
		a.reviews = reviews
		a.closers = append(a.closers, closeFn)
		log.Info("review cache enabled", logger.String("redis_addr", cfg.Cache.RedisAddr))
	} else {
		a.reviews = cache.NewNoop()
	}

	// Strava clients. Without credentials the OAuth issuer stays nil and
	// the auth service reports ErrNotConfigured.
	httpClient := &http.Client{Timeout: cfg.Strava.Timeout}
	api := strava.NewClient(cfg.Strava.APIURL, cfg.Strava.Timeout)
	a.source = service.NewActivitySource(api, cfg.Strava.PerPage)

	var issuer service.TokenIssuer
	if cfg.Strava.Configured() {
		issuer = strava.NewOAuth(strava.OAuthConfig{
			ClientID:     cfg.Strava.ClientID,
			ClientSecret: cfg.Strava.ClientSecret,
			RedirectURL:  cfg.Strava.RedirectURL,
			AuthURL:      cfg.Strava.AuthURL,
			TokenURL:     cfg.Strava.TokenURL,
			Scopes:       cfg.Strava.Scopes,
		}, httpClient)
	} else {
		log.Warn("strava client credentials missing; only demo and offline reviews are available")
	}

	// Initialize services
	a.authService = service.NewAuthService(issuer, strava.NewStateStore(), a.sessions)
	a.reviewService = service.NewReviewService(a.source, a.store, a.reviews, loc)
	a.syncService = service.NewSyncService(a.authService, a.sessions, a.source, a.store, a.reviews, service.SyncOptions{
		Year:        cfg.Review.Year,
		Location:    loc,
		Concurrency: cfg.Sync.Concurrency,
	})

	if cfg.Notify.Enabled() {
		a.notifier, err = notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, cfg.Notify.TelegramEndpoint, httpClient)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	return a, nil
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", logger.Err(err))
		}
	}
	a.closers = nil
}

// requireNotifier fails when Telegram delivery was asked for but is not set up
func (a *app) requireNotifier() error {
	if a.notifier == nil {
		return fmt.Errorf("telegram is not configured: set notify.telegram_token and notify.telegram_chat_id")
	}
	return nil
}
