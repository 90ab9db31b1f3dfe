package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/middleware"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

// RouterConfig holds everything the HTTP API is assembled from
type RouterConfig struct {
	Env           string
	CORSOrigins   []string
	DefaultYear   int
	SlideDuration time.Duration

	Logger  logger.Logger
	Auth    service.AuthService
	Reviews service.ReviewService

	// RateLimits disables the per-IP limiters when false, for tests
	RateLimits bool
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	production := cfg.Env == "production"
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeaders(production))

	general, authLimit, strict := passThrough, passThrough, passThrough
	if cfg.RateLimits {
		general = middleware.RateLimit()
		authLimit = middleware.RateLimitAuth()
		strict = middleware.RateLimitStrict()
	}

	router.NoRoute(func(c *gin.Context) {
		apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "route", c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		apierror.WriteProblem(c, apierror.NewMethodNotAllowedError(apierror.GetRequestID(c), c.Request.Method))
	})

	authHandler := NewAuthHandler(cfg.Auth, production)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.DefaultYear, cfg.SlideDuration)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	auth.Use(authLimit)
	{
		auth.GET("/strava", authHandler.Connect)
		auth.GET("/callback", authHandler.Callback)
		auth.POST("/logout", authHandler.Logout)
	}

	router.POST("/api/token", authLimit, authHandler.Token)

	v1 := router.Group("/api/v1")
	v1.Use(general)
	{
		v1.GET("/demo", reviewHandler.Demo)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.Auth))
		{
			protected.GET("/review", reviewHandler.GetReview)
			protected.POST("/review/refresh", strict, reviewHandler.RefreshReview)
			protected.GET("/review/story", reviewHandler.GetStory)
			protected.GET("/review/share.png", reviewHandler.GetShareCard)
		}
	}

	return router
}

func passThrough(c *gin.Context) { c.Next() }
