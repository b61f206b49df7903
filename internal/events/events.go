// Package events provides an in-process pub/sub bus for apply progress.
package events

import (
	"time"
)

// EventType identifies the type of event being published.
type EventType string

const (
	// ApplyStarted is published once the store is open and before the first batch.
	ApplyStarted EventType = "apply.started"

	// BatchCommitted is published after a batch transaction commits.
	BatchCommitted EventType = "apply.batch_committed"

	// BatchRetrying is published when a transient batch failure is about to be retried.
	BatchRetrying EventType = "apply.batch_retrying"

	// ApplyCompleted is published when every batch has committed.
	ApplyCompleted EventType = "apply.completed"

	// ApplyFailed is published when a run stops before committing every batch.
	ApplyFailed EventType = "apply.failed"
)

// Event represents a published event.
type Event struct {
	// Type identifies the event type.
	Type EventType

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Payload contains event-specific data.
	Payload any
}

// NewEvent creates a new event with the given type and payload.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// EventHandler is a function that processes events.
type EventHandler func(event Event)
