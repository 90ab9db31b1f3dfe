package apierror

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the MIME type for RFC 9457 Problem Details.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes problem as the response, setting Retry-After when present.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	c.Header("Content-Type", ContentTypeProblemJSON)

	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}

	c.JSON(problem.Status, problem)
}

// AbortWithProblem writes problem and stops the handler chain.
func AbortWithProblem(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID returns the request id set by the logging middleware,
// falling back to the X-Request-ID header.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError creates a 400 response listing every invalid field.
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "One or more fields failed validation",
		RequestID:   requestID,
		UserMessage: "Please check your input and try again",
		Errors:      errors,
	}
}

// NewBadRequestError creates a 400 response for malformed requests.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeBadRequest,
		Title:       TitleBadRequest,
		Status:      http.StatusBadRequest,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: userMessage,
	}
}

// NewUnauthorizedError creates a 401 response for requests without a session.
func NewUnauthorizedError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUnauthorized,
		Title:       TitleUnauthorized,
		Status:      http.StatusUnauthorized,
		Detail:      "A Strava session is required to access this resource",
		RequestID:   requestID,
		UserMessage: "Connect with Strava to continue",
		Action:      ActionAuthenticate,
	}
}

// NewReconnectError creates a 401 response telling the client to run the
// OAuth flow again.
func NewReconnectError(requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeReconnect,
		Title:       TitleReconnect,
		Status:      http.StatusUnauthorized,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "Session expired. Please connect again.",
		Action:      ActionReconnect,
	}
}

// NewNotFoundError creates a 404 response.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeNotFound,
		Title:       TitleNotFound,
		Status:      http.StatusNotFound,
		Detail:      fmt.Sprintf("%s '%s' was not found", resource, id),
		RequestID:   requestID,
		UserMessage: fmt.Sprintf("The requested %s could not be found", resource),
	}
}

// NewMethodNotAllowedError creates a 405 response.
func NewMethodNotAllowedError(requestID, method string) *ProblemDetails {
	return &ProblemDetails{
		Type:      TypeMethodNotAllowed,
		Title:     TitleMethodNotAllowed,
		Status:    http.StatusMethodNotAllowed,
		Detail:    fmt.Sprintf("Method %s is not allowed for this resource", method),
		RequestID: requestID,
	}
}

// NewMalformedActivityError creates a 422 response naming the activity field
// that could not be used.
func NewMalformedActivityError(requestID string, activityID int64, field, reason string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeMalformedActivity,
		Title:       TitleMalformedActivity,
		Status:      http.StatusUnprocessableEntity,
		Detail:      fmt.Sprintf("Activity %d has an unusable %s", activityID, field),
		RequestID:   requestID,
		UserMessage: "One of your activities is missing data and the review could not be built",
		Errors: []FieldError{
			{Field: field, Message: reason, Code: "malformed_activity"},
		},
	}
}

// NewRateLimitError creates a 429 response with a Retry-After hint.
func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeRateLimit,
		Title:       TitleRateLimit,
		Status:      http.StatusTooManyRequests,
		Detail:      fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", retryAfter),
		RequestID:   requestID,
		UserMessage: "Too many requests. Please wait before trying again.",
		RetryAfter:  &retryAfter,
		Action:      ActionRetry,
	}
}

// NewInternalError creates a 500 response. The cause is never included;
// callers log it server side.
func NewInternalError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeInternal,
		Title:       TitleInternal,
		Status:      http.StatusInternalServerError,
		Detail:      "An unexpected error occurred",
		RequestID:   requestID,
		UserMessage: "Something went wrong. Please try again later.",
	}
}

// NewMisconfiguredError creates a 500 response for missing server settings.
func NewMisconfiguredError(requestID string) *ProblemDetails {
	return &ProblemDetails{
		Type:      TypeMisconfigured,
		Title:     TitleMisconfigured,
		Status:    http.StatusInternalServerError,
		Detail:    "Strava client credentials are not configured",
		RequestID: requestID,
	}
}

// NewUpstreamError creates a 502 response for Strava failures.
func NewUpstreamError(requestID, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:        TypeUpstream,
		Title:       TitleUpstream,
		Status:      http.StatusBadGateway,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: "Strava is not responding right now. Please try again.",
		Action:      ActionRetry,
	}
}
