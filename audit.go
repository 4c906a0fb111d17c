package recagent

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/zhaxinji/recagent-client/internal/audit"
)

// Session-lifecycle event types emitted through the audit dispatcher.
const (
	EventSessionLoaded         = "session_loaded"
	EventLoginSuccess          = "login_success"
	EventLoginFailure          = "login_failure"
	EventLogout                = "logout"
	EventRegistrationSubmitted = "registration_submitted"
	EventCredentialRejected    = "credential_rejected"
	EventProfileUpdated        = "profile_updated"
	EventProfileRefetched      = "profile_refetched"
)

// AuditEvent is a structured session-lifecycle record.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the client's dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = audit.JSONWriterSink

// ZerologSink is an [AuditSink] that logs events through zerolog.
type ZerologSink = audit.ZerologSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewZerologSink creates a [ZerologSink] over logger.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return audit.NewZerologSink(logger)
}

func (c *Client) emit(ctx context.Context, eventType, userID string, success bool, errText string) {
	if c == nil || c.audit == nil {
		return
	}
	c.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		RequestID: requestIDFromContext(ctx),
		Success:   success,
		Error:     errText,
	})
}
