package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler consumes one ticket event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans ticket events out to their subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

// Publish runs every subscriber of event.Type in subscription order. A failing
// subscriber does not stop the rest; failures come back joined and tagged with
// the event type.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribers := append([]EventHandler(nil), d.subscribers[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, handle := range subscribers {
		if err := handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", event.Type, err))
		}
	}
	return errors.Join(errs...)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
	d.mu.Unlock()
}

// SubscribeAll registers handler for every ticket event type.
func SubscribeAll(dispatcher Dispatcher, handler EventHandler) {
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
