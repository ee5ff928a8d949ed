package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"traxomni_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncInvokesAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var calls int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("handler calls = %d, want 3", got)
	}
}

func TestPublishSyncReturnsHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	wantErr := errors.New("handler broke")

	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		return wantErr
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Errorf("PublishSync error = %v, want %v", err, wantErr)
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	done := make(chan struct{})
	bus.Subscribe("thing.happened", HandlerFunc(func(ctx context.Context, event Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "thing.happened"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"}); err != nil {
		t.Errorf("PublishSync with no subscribers: %v", err)
	}
}
