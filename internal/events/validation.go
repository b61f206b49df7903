package events

import (
	"fmt"
	"reflect"
)

var payloadTypes = map[EventType]reflect.Type{
	ApplyStarted:   reflect.TypeOf(&RunEvent{}),
	BatchCommitted: reflect.TypeOf(&BatchEvent{}),
	BatchRetrying:  reflect.TypeOf(&BatchEvent{}),
	ApplyCompleted: reflect.TypeOf(&RunCompletedEvent{}),
	ApplyFailed:    reflect.TypeOf(&RunFailedEvent{}),
}

// ValidatePayload verifies that an event payload matches the expected type.
func ValidatePayload(event Event) error {
	if event.Payload == nil {
		return nil
	}

	expected, ok := payloadTypes[event.Type]
	if !ok {
		return fmt.Errorf("no payload mapping for event type %q", event.Type)
	}

	if reflect.TypeOf(event.Payload) != expected {
		return fmt.Errorf("event %q payload type mismatch: got %T, expected %s", event.Type, event.Payload, expected)
	}

	return nil
}
