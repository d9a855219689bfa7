package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans ticket events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// NewInMemoryDispatcher returns a synchronous, process-local dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &localDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

type localDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

func (d *localDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
	d.mu.Unlock()
}

// Publish runs every subscriber in registration order. A failing or
// panicking subscriber does not stop the rest; failures are joined.
func (d *localDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subscribers := d.subscribers[event.Type]
	d.mu.RUnlock()

	var errs []error
	for _, handle := range subscribers {
		if err := invoke(ctx, handle, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, handle EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s handler panicked: %v", event.Type, r)
		}
	}()
	return handle(ctx, event)
}
