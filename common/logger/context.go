package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and the worker enrich the context once; every slog call made with that
// context then carries the identifiers without repeating them.
type LogFields struct {
	RequestID *string // Inbound request / trace header value
	UserID    *string // Authenticated actor
	NeedID    *string
	PollID    *string
	MessageID *string // Supporter message ID
	StreamID  *string // Redis stream message ID
	EventType *string // Activity event type (e.g., "poll.voted")
	Component string  // Component name (e.g., "needsnet.worker.activity")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.NeedID != nil {
		result.NeedID = new.NeedID
	}
	if new.PollID != nil {
		result.PollID = new.PollID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.StreamID != nil {
		result.StreamID = new.StreamID
	}
	if new.EventType != nil {
		result.EventType = new.EventType
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{PollID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
