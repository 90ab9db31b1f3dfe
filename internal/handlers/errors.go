package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/yearinmotion/internal/apierror"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/middleware"
	"github.com/JonnyWalker81/yearinmotion/internal/service"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

// writeServiceError maps a service failure onto a problem response.
// Unknown errors are logged and reported without detail.
func writeServiceError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)
	log := logger.Ctx(c.Request.Context())

	var malformed *stats.MalformedInputError
	var upstream *strava.APIError

	switch {
	case errors.As(err, &malformed):
		log.Warn("review rejected malformed activity",
			logger.Int64("activity_id", malformed.ActivityID),
			logger.String("field", malformed.Field),
			logger.String("reason", malformed.Reason))
		apierror.WriteProblem(c, apierror.NewMalformedActivityError(requestID, malformed.ActivityID, malformed.Field, malformed.Reason))
	case errors.Is(err, service.ErrReconnect):
		middleware.ClearSessionCookie(c)
		apierror.WriteProblem(c, apierror.NewReconnectError(requestID, err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
	case errors.Is(err, service.ErrNotConfigured):
		log.Error("strava client not configured")
		apierror.WriteProblem(c, apierror.NewMisconfiguredError(requestID))
	case errors.Is(err, service.ErrInvalidState):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "The sign-in link expired. Please try again."))
	case errors.Is(err, service.ErrMissingGrantValue), errors.Is(err, service.ErrUnsupportedGrant):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid token request"))
	case errors.As(err, &upstream):
		log.Warn("strava request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID, upstream.Error()))
	case errors.Is(err, strava.ErrTokenExchange):
		log.Warn("strava token exchange failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewUpstreamError(requestID, "Strava rejected the token request"))
	default:
		log.Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
