package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/yearinmotion/internal/handlers"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and the background activity sync.`,
	RunE:  runServe,
}

var (
	port            string
	shutdownTimeout time.Duration
	syncTimeout     time.Duration
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Time allowed for in-flight requests on shutdown")
	serveCmd.Flags().DurationVar(&syncTimeout, "sync-timeout", 30*time.Minute, "Upper bound for one scheduled sync pass")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.Default()
	log.Info("starting year in motion server",
		logger.String("env", cfg.Server.Env),
		logger.Int("year", cfg.Review.Year),
		logger.String("timezone", cfg.Review.Timezone))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Env:           cfg.Server.Env,
		CORSOrigins:   cfg.Server.CORSOrigins,
		DefaultYear:   cfg.Review.Year,
		SlideDuration: cfg.Review.SlideDuration,
		Logger:        log,
		Auth:          a.authService,
		Reviews:       a.reviewService,
		RateLimits:    true,
	})

	if cfg.Sync.Enabled {
		scheduler, err := service.NewSyncScheduler(a.syncService, cfg.Sync.Schedule, syncTimeout, a.reportSync)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			// wait for a running sync to finish before the database closes
			<-scheduler.Stop().Done()
		}()
		log.Info("background sync scheduled", logger.String("schedule", cfg.Sync.Schedule))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// reportSync forwards a finished sync pass to Telegram when configured
func (a *app) reportSync(report *service.SyncReport) {
	logger.Info("sync finished",
		logger.Int("sessions", report.Sessions),
		logger.Int("failed", report.Failed),
		logger.Int("activities", report.Activities),
		logger.Duration("duration", report.Duration))

	if a.notifier == nil {
		return
	}
	if err := a.notifier.SendSyncReport(report); err != nil {
		logger.Warn("failed to send sync report", logger.Err(err))
	}
}
