package authgate

import (
	"io"

	"github.com/shahnawazpatel23/authgate/internal/audit"
)

// AuditEvent is one structured record emitted by the engine for a
// security-relevant operation.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher.
type AuditSink = audit.Sink

// NoOpSink discards every event.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers events on a channel for consumption by the caller.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes events as newline-delimited JSON.
type JSONWriterSink = audit.JSONWriterSink

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
