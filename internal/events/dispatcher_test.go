package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.TicketKey)
		return errors.New("webhook down")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketKey)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketKey: "T-1"})

	assert.EqualError(t, err, "webhook down")
	assert.Equal(t, []string{"first:T-1", "second:T-1"}, calls)
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketMessageAdded}))
}

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		delivered = true
		return nil
	})
	d.Subscribe(EventTicketStatusChanged, nil)

	err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged})

	assert.EqualError(t, err, "ticket_status_changed handler panicked: boom")
	assert.True(t, delivered)
}
