package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("expected non-nil bus")
	}

	stats := bus.Stats()
	if stats.SubscriberCount != 0 {
		t.Errorf("expected 0 subscribers, got %d", stats.SubscriberCount)
	}
	if stats.IsClosed {
		t.Error("expected bus to not be closed")
	}
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var got []Event

	bus.Subscribe(BatchCommitted, func(event Event) {
		mu.Lock()
		got = append(got, event)
		mu.Unlock()
	})

	if err := bus.Publish(context.Background(), NewBatchCommitted("run", 1, 3, 100, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Close drains pending events
	bus.Close()

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Type != BatchCommitted {
		t.Errorf("expected event type %s, got %s", BatchCommitted, got[0].Type)
	}
	payload, ok := got[0].Payload.(*BatchEvent)
	if !ok {
		t.Fatalf("expected *BatchEvent payload, got %T", got[0].Payload)
	}
	if payload.Batch != 1 || payload.Batches != 3 || payload.Statements != 100 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestBus_PreservesOrderPerSubscriber(t *testing.T) {
	bus := NewBus()

	var got []int
	bus.Subscribe(BatchCommitted, func(event Event) {
		got = append(got, event.Payload.(*BatchEvent).Batch)
	})

	for i := 1; i <= 50; i++ {
		bus.Publish(context.Background(), NewBatchCommitted("run", i, 50, 1, 1))
	}
	bus.Close()

	if len(got) != 50 {
		t.Fatalf("expected 50 events, got %d", len(got))
	}
	for i, batch := range got {
		if batch != i+1 {
			t.Fatalf("event %d carried batch %d", i, batch)
		}
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(ApplyStarted, func(event Event) {
			count.Add(1)
		})
	}

	if err := bus.Publish(context.Background(), NewApplyStarted("run", "neo4j", 1, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bus.Close()

	if count.Load() != 3 {
		t.Errorf("expected 3 handlers to receive event, got %d", count.Load())
	}
}

func TestBus_SubscribeFiltersEventType(t *testing.T) {
	bus := NewBus()

	var receivedCount atomic.Int32
	bus.Subscribe(ApplyStarted, func(event Event) {
		receivedCount.Add(1)
	})

	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	bus.Publish(context.Background(), NewEvent(BatchCommitted, nil))
	bus.Publish(context.Background(), NewEvent(ApplyCompleted, nil))
	bus.Close()

	if receivedCount.Load() != 1 {
		t.Errorf("expected 1 event, got %d", receivedCount.Load())
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var receivedCount atomic.Int32
	bus.SubscribeAll(func(event Event) {
		receivedCount.Add(1)
	})

	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	bus.Publish(context.Background(), NewEvent(BatchRetrying, nil))
	bus.Publish(context.Background(), NewEvent(ApplyFailed, nil))
	bus.Close()

	if receivedCount.Load() != 3 {
		t.Errorf("expected 3 events, got %d", receivedCount.Load())
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var receivedCount atomic.Int32
	unsubscribe := bus.Subscribe(ApplyStarted, func(event Event) {
		receivedCount.Add(1)
	})

	unsubscribe()
	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))

	if stats := bus.Stats(); stats.SubscriberCount != 0 {
		t.Errorf("expected 0 subscribers, got %d", stats.SubscriberCount)
	}
	if receivedCount.Load() != 0 {
		t.Errorf("expected no events after unsubscribe, got %d", receivedCount.Load())
	}
}

func TestBus_UnsubscribeIdempotent(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	unsubscribe := bus.Subscribe(ApplyStarted, func(event Event) {})

	// Should not panic
	unsubscribe()
	unsubscribe()
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(ApplyStarted, func(event Event) {})

	if err := bus.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := bus.Stats()
	if !stats.IsClosed {
		t.Error("expected bus to be closed")
	}
	if stats.SubscriberCount != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", stats.SubscriberCount)
	}

	err := bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	if !errors.Is(err, ErrBusClosed) {
		t.Errorf("expected ErrBusClosed, got %v", err)
	}
}

func TestBus_CloseWaitsForSlowHandler(t *testing.T) {
	bus := NewBus()

	var handled atomic.Bool
	bus.Subscribe(ApplyCompleted, func(event Event) {
		time.Sleep(20 * time.Millisecond)
		handled.Store(true)
	})

	bus.Publish(context.Background(), NewEvent(ApplyCompleted, nil))
	bus.Close()

	if !handled.Load() {
		t.Error("expected Close to wait for the pending event")
	}
}

func TestBus_CloseIdempotent(t *testing.T) {
	bus := NewBus()

	if err := bus.Close(); err != nil {
		t.Errorf("first close error: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second close error: %v", err)
	}
}

func TestBus_SubscribeAfterClose(t *testing.T) {
	bus := NewBus()
	bus.Close()

	unsubscribe := bus.Subscribe(ApplyStarted, func(event Event) {
		t.Error("handler should not be called")
	})

	// Should not panic
	unsubscribe()
}

func TestBus_RejectsMismatchedPayload(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	err := bus.Publish(context.Background(), NewEvent(BatchCommitted, &RunEvent{}))
	if err == nil {
		t.Fatal("expected payload mismatch error")
	}
}

func TestBus_DropsWhenBufferFull(t *testing.T) {
	bus := NewBus(WithBufferSize(1))

	blocker := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	bus.Subscribe(ApplyStarted, func(event Event) {
		once.Do(func() { close(started) })
		<-blocker
	})

	// First event is taken by the handler, second fills the buffer
	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	<-started
	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))

	if dropped := bus.Stats().Dropped; dropped != 1 {
		t.Errorf("expected 1 dropped event, got %d", dropped)
	}

	close(blocker)
	bus.Close()
}

func TestBus_ContextCancellation(t *testing.T) {
	bus := NewBus(WithBufferSize(1))

	blocker := make(chan struct{})
	bus.Subscribe(ApplyStarted, func(event Event) {
		<-blocker
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With a cancelled context Publish either delivers into free buffer
	// space or reports the cancellation; it never blocks.
	for i := 0; i < 3; i++ {
		if err := bus.Publish(ctx, NewEvent(ApplyStarted, nil)); err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	close(blocker)
	bus.Close()
}

func TestBus_HandlerPanicRecovery(t *testing.T) {
	bus := NewBus()

	var secondHandlerCalled atomic.Bool
	bus.Subscribe(ApplyStarted, func(event Event) {
		panic("test panic")
	})
	bus.Subscribe(ApplyStarted, func(event Event) {
		secondHandlerCalled.Store(true)
	})

	bus.Publish(context.Background(), NewEvent(ApplyStarted, nil))
	bus.Close()

	if !secondHandlerCalled.Load() {
		t.Error("expected second handler to be called despite first handler panic")
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var receivedCount atomic.Int32
	bus.Subscribe(BatchCommitted, func(event Event) {
		receivedCount.Add(1)
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(context.Background(), NewEvent(BatchCommitted, nil))
		}()
	}
	wg.Wait()
	bus.Close()

	if receivedCount.Load() != 100 {
		t.Errorf("expected 100 events, got %d", receivedCount.Load())
	}
}

func TestBus_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(ApplyStarted, func(event Event) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}
	wg.Wait()

	if stats := bus.Stats(); stats.SubscriberCount != 0 {
		t.Errorf("expected 0 subscribers, got %d", stats.SubscriberCount)
	}
}

func TestBus_WithBufferSize(t *testing.T) {
	bus := NewBus(WithBufferSize(5))
	defer bus.Close()

	if bus.bufferSize != 5 {
		t.Errorf("expected buffer size 5, got %d", bus.bufferSize)
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	event := NewApplyStarted("run-1", "falkordb", 2, 150)
	after := time.Now()

	if event.Type != ApplyStarted {
		t.Errorf("expected type %s, got %s", ApplyStarted, event.Type)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Error("timestamp not within expected range")
	}

	payload, ok := event.Payload.(*RunEvent)
	if !ok {
		t.Fatal("expected *RunEvent payload")
	}
	if payload.Backend != "falkordb" || payload.Statements != 150 {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestEventConstructors_MatchPayloadTypes(t *testing.T) {
	cause := errors.New("boom")
	tests := []Event{
		NewApplyStarted("r", "neo4j", 1, 1),
		NewBatchCommitted("r", 1, 1, 1, 1),
		NewBatchRetrying("r", 1, 1, 1, 1, time.Second, cause),
		NewApplyCompleted("r", "neo4j", 1, 1, 0, time.Second),
		NewApplyFailed("r", 1, 1, 0, 0, cause),
	}

	for _, event := range tests {
		t.Run(string(event.Type), func(t *testing.T) {
			if err := ValidatePayload(event); err != nil {
				t.Errorf("ValidatePayload() = %v", err)
			}
		})
	}
}

func TestEventTypes(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{ApplyStarted, "apply.started"},
		{BatchCommitted, "apply.batch_committed"},
		{BatchRetrying, "apply.batch_retrying"},
		{ApplyCompleted, "apply.completed"},
		{ApplyFailed, "apply.failed"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if string(tt.eventType) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.eventType)
			}
		})
	}
}
