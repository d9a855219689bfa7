package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// Handler delivers one event.
type Handler interface {
	Handle(ctx context.Context, event events.Event) error
}

var ticketEvents = []events.EventType{
	events.EventTicketCreated,
	events.EventTicketStatusChanged,
	events.EventTicketMessageAdded,
	events.EventTicketDeleted,
}

// NotificationWorker moves notification delivery off the request path.
type NotificationWorker struct {
	handler Handler
	logger  *zap.Logger
	queue   chan events.Event
	done    chan struct{}
}

// NewNotificationWorker builds a worker with a queue of the given size.
func NewNotificationWorker(handler Handler, size int, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size < 1 {
		size = 1
	}
	return &NotificationWorker{
		handler: handler,
		logger:  logger,
		queue:   make(chan events.Event, size),
		done:    make(chan struct{}),
	}
}

// Subscribe registers the worker's queue for every ticket event.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range ticketEvents {
		dispatcher.Subscribe(eventType, w.Enqueue)
	}
}

// Enqueue never blocks; the event is dropped when the queue is full.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

// Start runs the delivery loop until ctx is cancelled, then drains what is
// already queued. Wait blocks until that has happened.
func (w *NotificationWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case event := <-w.queue:
				w.deliver(event)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	<-w.done
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(event events.Event) {
	// handlers get a fresh context; the request that raised the event is gone
	if err := w.handler.Handle(context.Background(), event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
