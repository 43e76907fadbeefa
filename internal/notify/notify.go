// Package notify fans timeline events out to interested listeners. Delivery
// is best effort and never blocks the synchronization path.
package notify

import (
	"context"
	"time"

	"showrunner/internal/logging"
)

// Event types published by the coordination layer
const (
	TypeDeadlineCorrected = "deadline_corrected"
	TypeTimelineShifted   = "timeline_shifted"
	TypeRiskDetected      = "risk_detected"
)

// TimelineEvent is one notification about an event's timeline
type TimelineEvent struct {
	Type        string      `json:"type"`
	WorkspaceID string      `json:"workspace_id,omitempty"`
	EventID     string      `json:"event_id,omitempty"`
	TaskID      string      `json:"task_id,omitempty"`
	Message     string      `json:"message,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Data        interface{} `json:"data,omitempty"`
}

// Sink receives timeline events
type Sink interface {
	Publish(ctx context.Context, event TimelineEvent)
}

// LogSink writes every event to the structured log
type LogSink struct {
	logger logging.Logger
}

// NewLogSink creates a sink backed by the given logger
func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger.WithComponent("notify")}
}

// Publish implements Sink
func (s *LogSink) Publish(ctx context.Context, event TimelineEvent) {
	s.logger.InfoContext(ctx, "timeline event",
		"type", event.Type,
		"workspace_id", event.WorkspaceID,
		"event_id", event.EventID,
		"task_id", event.TaskID,
		"message", event.Message,
	)
}

// MultiSink publishes to every wrapped sink in order
type MultiSink []Sink

// Publish implements Sink
func (m MultiSink) Publish(ctx context.Context, event TimelineEvent) {
	for _, sink := range m {
		sink.Publish(ctx, event)
	}
}
