package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
)

// SessionCookie holds the session id for browser clients
const SessionCookie = "yim_session"

const sessionKey = "session"

// sessionCookieMaxAge is 180 days in seconds
const sessionCookieMaxAge = 180 * 24 * 60 * 60

// SessionID extracts the session id from the cookie or a Bearer header
func SessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Auth requires a stored Strava session, refreshing its token when needed
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Ctx(c.Request.Context())
		requestID := apierror.GetRequestID(c)

		id := SessionID(c)
		if id == "" {
			log.Debug("authentication failed: no session")
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(requestID))
			return
		}

		session, err := auth.EnsureFresh(c.Request.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionNotFound):
				log.Debug("authentication failed: unknown session")
				apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(requestID))
			case errors.Is(err, service.ErrReconnect):
				log.Info("session needs reconnect", logger.Err(err))
				ClearSessionCookie(c)
				apierror.AbortWithProblem(c, apierror.NewReconnectError(requestID, err.Error()))
			case errors.Is(err, service.ErrNotConfigured):
				log.Error("strava client not configured")
				apierror.AbortWithProblem(c, apierror.NewMisconfiguredError(requestID))
			default:
				log.Error("session lookup failed", logger.Err(err))
				apierror.AbortWithProblem(c, apierror.NewInternalError(requestID))
			}
			return
		}

		c.Set(sessionKey, session)
		ctx := logger.WithAthleteID(c.Request.Context(), session.AthleteID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// SessionFromContext returns the session stored by Auth
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*models.Session)
	return session, ok
}

// SetSessionCookie stores the session id for browser clients
func SetSessionCookie(c *gin.Context, id string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
