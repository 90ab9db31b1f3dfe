package logger

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	athleteIDKey contextKey = "athlete_id"
	loggerKey    contextKey = "logger"
)

// WithRequestID adds a request ID to the context, generating one when empty
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithAthleteID tags the context with the Strava athlete being served
func WithAthleteID(ctx context.Context, athleteID int64) context.Context {
	return context.WithValue(ctx, athleteIDKey, athleteID)
}

// AthleteIDFromContext returns 0 when no athlete is set
func AthleteIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(athleteIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, or returns the default logger
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

func extractContextFields(ctx context.Context) []Field {
	var fields []Field

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, String("request_id", requestID))
	}
	if athleteID := AthleteIDFromContext(ctx); athleteID != 0 {
		fields = append(fields, Int64("athlete_id", athleteID))
	}

	return fields
}

// Ctx returns the context's logger enriched with its request and athlete ids
func Ctx(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
